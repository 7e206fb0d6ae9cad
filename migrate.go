package main

import (
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msomdec/recipe-api/internal/di/providers"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, cfg, err := newContainer(v)
			if err != nil {
				return err
			}
			defer injector.Shutdown()

			db, err := do.Invoke[*providers.DatabaseHandle](injector)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			do.MustInvoke[*slog.Logger](injector).Info("database migrations applied", "database_path", cfg.DatabasePath)
			return nil
		},
	}
}
