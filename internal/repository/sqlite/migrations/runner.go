package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// gooseUp is swapped out in tests.
var gooseUp = goose.UpContext

// Run applies all unapplied migrations from the embedded FS to the database.
// Applied versions are tracked by goose in goose_db_version.
func Run(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}
	slog.Debug("migrations applied", "version", version)
	return nil
}
