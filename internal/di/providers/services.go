package providers

import (
	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/service"
	"github.com/msomdec/recipe-api/internal/validation"
)

// RateLimiterHandle wraps the login rate limiter so its sweeper stops on shutdown.
type RateLimiterHandle struct {
	*service.RateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAuthService provides the account and token service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewAuthService(db.Users(), v, cfg.JWTSecret, cfg.BcryptCost, cfg.TokenTTL), nil
}

// ProvideRecipeService provides the recipe service.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewRecipeService(db.Recipes(), db.Tags(), v), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewTagService(db.Tags(), v), nil
}

// ProvideAdminService provides the staff user management service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	auth := do.MustInvoke[*service.AuthService](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewAdminService(db.Users(), auth, v), nil
}

// ProvideLoginLimiter provides the per-client limiter for the register and token endpoints.
func ProvideLoginLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &RateLimiterHandle{RateLimiter: service.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)}, nil
}
