package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/handler"
	"github.com/msomdec/recipe-api/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the configured but not yet listening HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	router := handler.NewRouter(handler.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Recipes:      do.MustInvoke[*service.RecipeService](i),
		Tags:         do.MustInvoke[*service.TagService](i),
		Admin:        do.MustInvoke[*service.AdminService](i),
		LoginLimiter: limiter.RateLimiter,
	}, handler.Options{
		CookieSecure:      cfg.CookieSecure,
		TokenTTL:          cfg.TokenTTL,
		CORSOrigins:       cfg.CORSOrigins,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	return &HTTPServerHandle{Server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}}, nil
}
