package main

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/postgres"
	"github.com/meikuraledutech/aoplan/server"
)

var serveConfig string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning HTTP service",
	Long: `Serves the planner and the plan library over HTTP, backed by postgres.

The database URL comes from the config file or the DATABASE_URL
environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig(serveConfig)
		if err != nil {
			return err
		}

		pool, err := pgxpool.New(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		var store aoplan.Store = postgres.New(pool)
		if err := store.CreateSchema(cmd.Context()); err != nil {
			return err
		}

		log := slog.Default()
		log.Info("listening", "addr", cfg.Listen)
		return server.New(store, log).Listen(cfg.Listen)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "YAML configuration file")
}
