// Package view renders the server-side admin pages as templ components.
package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// html accumulates markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the admin page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` | Recipe admin</title>`)
		h.rawf(`<script type="module" src="%s"></script>`, datastarScript)
		h.raw(`</head><body><header><a href="/admin/users">Users</a></header><main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}
