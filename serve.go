package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/di/providers"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	cmd.Flags().String("port", "8080", "HTTP listen port")
	if err := v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}
	return cmd
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, v *viper.Viper) error {
	injector, _, err := newContainer(v)
	if err != nil {
		return err
	}
	log := do.MustInvoke[*slog.Logger](injector)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	db, err := do.Invoke[*providers.DatabaseHandle](injector)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database migrations applied")

	srv, err := do.Invoke[*providers.HTTPServerHandle](injector)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
