package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msomdec/recipe-api/internal/config"
	"github.com/msomdec/recipe-api/internal/di"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	var cfgFile string
	cmd := &cobra.Command{
		Use:           "recipe-api",
		Short:         "Recipe and tag API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	flags.String("database-path", "recipe.db", "SQLite database path")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	if err := v.BindPFlag(config.KeyDatabasePath, flags.Lookup("database-path")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
		panic(err)
	}

	cmd.AddCommand(newServeCmd(v), newMigrateCmd(v), newCreateSuperuserCmd(v))
	return cmd
}

// newContainer loads configuration from v and builds the DI container.
func newContainer(v *viper.Viper) (*do.RootScope, *config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return di.NewContainer(cfg), cfg, nil
}
