package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"content-optimizer-service/internal/config"
	"content-optimizer-service/internal/logging"
	"content-optimizer-service/internal/repository/postgresql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the content_jobs table and indexes in Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required")
		}
		log := logging.New(cfg.AppEnv, cfg.LogLevel)

		pool, err := postgresql.NewPool(cmd.Context(), cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgresql.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		log.Info().Str("postgres_dsn", config.RedactDSN(cfg.PostgresDSN)).Msg("schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
