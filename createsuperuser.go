package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msomdec/recipe-api/internal/di/providers"
	"github.com/msomdec/recipe-api/internal/service"
)

func newCreateSuperuserCmd(v *viper.Viper) *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account that can use the admin pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, _, err := newContainer(v)
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

			admin := do.MustInvoke[*service.AdminService](injector)
			user, err := admin.AddUser(cmd.Context(), in, true)
			if err != nil {
				return fmt.Errorf("create superuser: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created (id %d)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Email address used to log in")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (at least 8 characters)")
	for _, name := range []string{"email", "name", "password"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}
