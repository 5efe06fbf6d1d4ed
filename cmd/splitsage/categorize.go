package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/splitsage/splitsage/internal/engine"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize synced expenses with the AI oracle",
		Long: `Classify every uncategorized expense. Decisions are served from the
classification cache when a similar expense has been seen before; only
misses consult the oracle, paced to stay under API rate limits.

Examples:
  splitsage categorize            # Classify all uncategorized expenses
  splitsage categorize --dry-run  # Preview without saving decisions`,
		RunE: runCategorize,
	}

	cmd.Flags().Bool("dry-run", false, "preview decisions without saving them")
	_ = viper.BindPFlag("categorize.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun := viper.GetBool("categorize.dry_run")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	expenses, err := store.GetUncategorized(ctx)
	if err != nil {
		return fmt.Errorf("failed to load uncategorized expenses: %w", err)
	}
	if len(expenses) == 0 {
		slog.Info("Nothing to categorize")
		return nil
	}

	oracle, err := newOracleClient()
	if err != nil {
		return err
	}

	eng := engine.New(oracle, store, engine.Config{
		Logger:         slog.Default(),
		PacingInterval: viper.GetDuration("oracle.pacing_interval"),
	})

	bar := progressbar.NewOptions(len(expenses),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Categorizing expenses..."),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	decisions, stats, err := eng.CategorizeExpenses(ctx, expenses, func(p engine.Progress) {
		_ = bar.Set(p.Current)
	})
	if err != nil {
		return err
	}

	saved := 0
	if !dryRun {
		for _, d := range decisions {
			if updateErr := store.UpdateClassification(ctx, d.ExpenseID, d.Decision); updateErr != nil {
				// One bad record should not sink the run.
				slog.Warn("failed to save decision",
					"expense_id", d.ExpenseID,
					"error", updateErr)
				continue
			}
			saved++
		}
	}

	slog.Info("Categorization completed",
		"total", stats.Total,
		"cache_hits", stats.CacheHits,
		"api_calls", stats.OracleCalls,
		"cache_hit_rate", fmt.Sprintf("%.0f%%", stats.CacheHitRate*100),
		"saved", saved,
		"dry_run", dryRun)

	return nil
}
