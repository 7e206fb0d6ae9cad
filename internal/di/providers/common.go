// Package providers contains dependency injection providers for the recipe API.
package providers

import (
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/logger"
	"github.com/msomdec/recipe-api/internal/validation"
)

// shutdownTimeout bounds how long graceful shutdown may take.
const shutdownTimeout = 5 * time.Second

// ProvideLogger builds the structured logger and installs it as the slog default.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.LogLevel),
		AddSource:   cfg.Env == "development",
		Environment: cfg.Env,
	})
	slog.SetDefault(log)

	log.Info("starting recipe api",
		"environment", cfg.Env,
		"log_level", cfg.LogLevel,
		"database_path", cfg.DatabasePath,
	)
	return log, nil
}

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
