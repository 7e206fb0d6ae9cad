package view

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/msomdec/recipe-api/internal/domain"
)

// UserRowsID is the element the live search patches.
const UserRowsID = "user-rows"

// UserListPage lists users with a search box that refreshes the rows as the
// admin types.
func UserListPage(users []domain.User, query string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Users</h1><p><a href="/admin/users/add">Add user</a></p>`)
		h.raw(`<div data-signals:q="'`)
		h.text(jsString(query))
		h.raw(`'">`)
		h.raw(`<input type="search" placeholder="Search by email or name" data-bind:q `)
		h.raw(`data-on:input__debounce.300ms="@get('/admin/users/search')">`)
		h.raw(`</div><table><thead><tr><th>Email</th><th>Name</th><th>Staff</th><th>Active</th></tr></thead>`)
		h.rawf(`<tbody id="%s">`, UserRowsID)
		h.component(ctx, UserRows(users))
		h.raw(`</tbody></table>`)
		return h.err
	})
	return Layout("Users", body)
}

// UserRows renders the table rows of the user list.
func UserRows(users []domain.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		if len(users) == 0 {
			h.raw(`<tr><td colspan="4">No users found.</td></tr>`)
			return h.err
		}
		for _, u := range users {
			h.raw(`<tr><td><a href="/admin/users/`)
			h.raw(strconv.FormatInt(u.ID, 10))
			h.raw(`">`)
			h.text(u.Email)
			h.raw(`</a></td><td>`)
			h.text(u.Name)
			h.raw(`</td><td>`)
			h.raw(yesNo(u.IsStaff))
			h.raw(`</td><td>`)
			h.raw(yesNo(u.IsActive))
			h.raw(`</td></tr>`)
		}
		return h.err
	})
}

// UserEditPage shows one user with a form for name and permission flags.
func UserEditPage(user *domain.User, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(user.Email)
		h.raw(`</h1>`)
		errorBox(h, errMsg)
		h.rawf(`<form method="post" action="/admin/users/%d">`, user.ID)
		h.raw(`<label>Name <input type="text" name="name" maxlength="255" value="`)
		h.text(user.Name)
		h.raw(`"></label>`)
		checkbox(h, "is_active", "Active", user.IsActive)
		checkbox(h, "is_staff", "Staff status", user.IsStaff)
		h.raw(`<p>Joined `)
		h.text(user.CreatedAt.Format("2006-01-02 15:04"))
		h.raw(`</p><button type="submit">Save</button></form>`)
		return h.err
	})
	return Layout(user.Email, body)
}

// UserAddPage is the form for creating a user.
func UserAddPage(email, name, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Add user</h1>`)
		errorBox(h, errMsg)
		h.raw(`<form method="post" action="/admin/users/add">`)
		h.raw(`<label>Email <input type="email" name="email" required value="`)
		h.text(email)
		h.raw(`"></label><label>Name <input type="text" name="name" required maxlength="255" value="`)
		h.text(name)
		h.raw(`"></label>`)
		h.raw(`<label>Password <input type="password" name="password" required minlength="8"></label>`)
		h.raw(`<label>Password confirmation <input type="password" name="password2" required minlength="8"></label>`)
		checkbox(h, "is_staff", "Staff status", false)
		h.raw(`<button type="submit">Save</button></form>`)
		return h.err
	})
	return Layout("Add user", body)
}

func errorBox(h *html, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="error" role="alert">`)
	h.text(msg)
	h.raw(`</p>`)
}

func checkbox(h *html, name, label string, checked bool) {
	h.rawf(`<label><input type="checkbox" name="%s"`, name)
	if checked {
		h.raw(` checked`)
	}
	h.raw(`> `)
	h.text(label)
	h.raw(`</label>`)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// jsString escapes s for use inside a single-quoted JavaScript string.
func jsString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
