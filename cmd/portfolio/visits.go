package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/logger"
)

func visitsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Manages the visit log",
	}

	var (
		before    string
		olderThan time.Duration
	)
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Deletes visits older than a date or age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := purgeCutoff(time.Now(), before, olderThan)
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, closeStore := openStore(ctx, cfg)
			defer closeStore()

			n, err := store.PurgeVisits(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("could not purge visits: %w", err)
			}
			logger.Info(ctx, "visits purged", zap.Int64("deleted", n), zap.Time("before", cutoff))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d visits recorded before %s\n", n, cutoff.Format(time.RFC3339))
			return nil
		},
	}
	purge.Flags().StringVar(&before, "before", "", "Delete visits before this date (YYYY-MM-DD, UTC)")
	purge.Flags().DurationVar(&olderThan, "older-than", cfg.Tracking.Retention, "Delete visits older than this age")

	cmd.AddCommand(purge)

	return cmd
}

// purgeCutoff resolves the purge flags. An explicit date wins over an age.
func purgeCutoff(now time.Time, before string, olderThan time.Duration) (time.Time, error) {
	if before != "" {
		t, err := time.Parse(time.DateOnly, before)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --before date: %w", err)
		}
		return t, nil
	}
	if olderThan <= 0 {
		return time.Time{}, errors.New("--older-than must be positive")
	}
	return now.Add(-olderThan), nil
}
