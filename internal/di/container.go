// Package di wires the application's components together.
package di

import (
	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/di/providers"
)

// NewContainer creates the DI container for an already loaded configuration.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideDatabase)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideRecipeService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}
