package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/repository/sqlite"
)

// DatabaseHandle wraps the SQLite database with shutdown capability.
type DatabaseHandle struct {
	domain.Database
	log *slog.Logger
}

// Shutdown implements do.Shutdownable.
func (h *DatabaseHandle) Shutdown() error {
	h.log.Info("closing database")
	return h.Close()
}

// ProvideDatabase opens the SQLite database. Migrations are applied by the caller.
func ProvideDatabase(i do.Injector) (*DatabaseHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return &DatabaseHandle{Database: db, log: log}, nil
}
