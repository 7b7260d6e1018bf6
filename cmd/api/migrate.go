package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kakeibo/backend/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Load()
			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			if err := database.Close(); err != nil {
				slog.Warn("Failed to close database connection", "error", err)
			}
			return nil
		},
	}
}
