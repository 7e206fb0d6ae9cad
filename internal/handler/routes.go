package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/msomdec/recipe-api/internal/service"
)

// Services bundles what the router needs from the service layer.
type Services struct {
	Auth         *service.AuthService
	Recipes      *service.RecipeService
	Tags         *service.TagService
	Admin        *service.AdminService
	LoginLimiter *service.RateLimiter
}

// Options controls transport-level behaviour of the router.
type Options struct {
	CookieSecure bool
	TokenTTL     time.Duration
	CORSOrigins  []string

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// NewRouter builds the HTTP handler for the whole application.
func NewRouter(svc Services, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	authHandler := NewAuthHandler(svc.Auth, opts.CookieSecure, opts.TokenTTL)
	recipeHandler := NewRecipeHandler(svc.Recipes)
	tagHandler := NewTagHandler(svc.Tags)
	adminHandler := NewAdminHandler(svc.Admin)
	requireAuth := RequireAuth(svc.Auth)

	r.Get("/healthz", HandleHealthz)

	r.Route("/api/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if svc.LoginLimiter != nil {
				r.Use(RateLimit(svc.LoginLimiter))
			}
			r.Post("/create", authHandler.HandleCreate)
			r.Post("/token", authHandler.HandleToken)
		})
		r.Post("/logout", authHandler.HandleLogout)

		r.With(requireAuth).Get("/me", authHandler.HandleMe)
		r.With(requireAuth).Patch("/me", authHandler.HandleUpdateMe)
	})

	r.Route("/api/recipe", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/recipes", recipeHandler.HandleList)
		r.Post("/recipes", recipeHandler.HandleCreate)
		r.Get("/recipes/{id}", recipeHandler.HandleGet)
		r.Put("/recipes/{id}", recipeHandler.HandleUpdate)
		r.Patch("/recipes/{id}", recipeHandler.HandlePatch)
		r.Delete("/recipes/{id}", recipeHandler.HandleDelete)

		r.Get("/tags", tagHandler.HandleList)
		r.Post("/tags", tagHandler.HandleCreate)
		r.Get("/tags/{id}", tagHandler.HandleGet)
		r.Put("/tags/{id}", tagHandler.HandleUpdate)
		r.Patch("/tags/{id}", tagHandler.HandlePatch)
		r.Delete("/tags/{id}", tagHandler.HandleDelete)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(RequireStaff)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/users", http.StatusFound)
		})
		r.Get("/users", adminHandler.HandleUserList)
		r.Get("/users/search", adminHandler.HandleUserSearch)
		r.Get("/users/add", adminHandler.HandleUserAddForm)
		r.Post("/users/add", adminHandler.HandleUserAdd)
		r.Get("/users/{id}", adminHandler.HandleUserDetail)
		r.Post("/users/{id}", adminHandler.HandleUserUpdate)
	})

	return r
}
