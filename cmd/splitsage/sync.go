package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/splitsage/splitsage/internal/splitwise"
)

const lastSyncKey = "last_sync_date"

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull expenses from Splitwise into the local store",
		Long: `Fetch shared expenses from Splitwise and upsert them into the local
database. By default only expenses dated after the last successful sync are
fetched; use --full to re-fetch everything.

Examples:
  splitsage sync                      # Incremental sync since last run
  splitsage sync --full               # Re-fetch the whole history
  splitsage sync --start 2026-01-01   # Fetch a specific window`,
		RunE: runSync,
	}

	cmd.Flags().String("start", "", "fetch expenses dated after this day (format: 2006-01-02)")
	cmd.Flags().String("end", "", "fetch expenses dated before this day (format: 2006-01-02)")
	cmd.Flags().Int("limit", 0, "maximum number of expenses to fetch (0 = no limit)")
	cmd.Flags().Bool("full", false, "ignore the last sync marker and fetch everything")

	_ = viper.BindPFlag("sync.start", cmd.Flags().Lookup("start"))
	_ = viper.BindPFlag("sync.end", cmd.Flags().Lookup("end"))
	_ = viper.BindPFlag("sync.limit", cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("sync.full", cmd.Flags().Lookup("full"))

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	client, err := newFeedClient()
	if err != nil {
		return err
	}

	opts := splitwise.FetchOptions{Limit: viper.GetInt("sync.limit")}

	if start := viper.GetString("sync.start"); start != "" {
		opts.DatedAfter, err = time.Parse("2006-01-02", start)
		if err != nil {
			return fmt.Errorf("invalid --start value %q: %w", start, err)
		}
	} else if !viper.GetBool("sync.full") {
		lastSync, metaErr := store.GetMetadata(ctx, lastSyncKey)
		if metaErr != nil {
			return fmt.Errorf("failed to read sync marker: %w", metaErr)
		}
		if lastSync != "" {
			opts.DatedAfter, err = time.Parse(time.RFC3339, lastSync)
			if err != nil {
				slog.Warn("ignoring malformed sync marker", "value", lastSync)
				opts.DatedAfter = time.Time{}
			}
		}
	}

	if end := viper.GetString("sync.end"); end != "" {
		opts.DatedBefore, err = time.Parse("2006-01-02", end)
		if err != nil {
			return fmt.Errorf("invalid --end value %q: %w", end, err)
		}
	}

	syncStarted := time.Now().UTC()

	expenses, err := client.FetchExpenses(ctx, opts)
	if err != nil {
		return err
	}

	if len(expenses) == 0 {
		slog.Info("No new expenses to sync")
		return nil
	}

	if err := store.UpsertExpenses(ctx, expenses); err != nil {
		return fmt.Errorf("failed to store expenses: %w", err)
	}

	if err := store.SetMetadata(ctx, lastSyncKey, syncStarted.Format(time.RFC3339)); err != nil {
		slog.Warn("failed to record sync marker", "error", err)
	}

	slog.Info("Sync completed", "expenses", len(expenses))
	return nil
}
