package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/logger"
)

// migrateCommand applies pending database migrations. serve does the same on
// startup; this lets a deploy run them ahead of time.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			// Open runs the migrations.
			_, closeStore := openStore(ctx, cfg)
			defer closeStore()

			logger.Info(ctx, "database is up to date")
		},
	}

	return cmd
}
