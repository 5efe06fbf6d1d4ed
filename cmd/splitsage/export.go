package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/splitsage/splitsage/internal/aggregate"
	"github.com/splitsage/splitsage/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a spending report to Google Sheets",
		Long: `Export a monthly or year-to-date summary to a Google Sheets spreadsheet.
Authentication uses either a service account key file or OAuth2 credentials.

Examples:
  splitsage export --month 2026-02   # Export one month
  splitsage export --ytd 2026        # Export the year to date`,
		RunE: runExport,
	}

	cmd.Flags().StringP("month", "m", "", "month to export (format: 2026-02)")
	cmd.Flags().Int("ytd", 0, "export the year to date for the given year")

	_ = viper.BindPFlag("export.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("export.ytd", cmd.Flags().Lookup("ytd"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	month := viper.GetString("export.month")
	year := viper.GetInt("export.ytd")
	if month == "" && year == 0 {
		return fmt.Errorf("provide either --month or --ytd")
	}
	if month != "" && year != 0 {
		return fmt.Errorf("--month and --ytd are mutually exclusive")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	writer, err := newSheetsWriter(cmd)
	if err != nil {
		return err
	}

	svc := aggregate.NewService(store, slog.Default())

	if month != "" {
		if month, err = parseMonthFlag(month); err != nil {
			return err
		}
		summary, summaryErr := svc.MonthlySummary(ctx, month)
		if summaryErr != nil {
			return summaryErr
		}
		if summary == nil {
			return fmt.Errorf("no expenses found for %s", month)
		}
		return writer.WriteMonthly(ctx, summary)
	}

	summary, err := svc.YearToDateSummary(ctx, year)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no expenses found for %d", year)
	}
	return writer.WriteYearToDate(ctx, summary)
}

func newSheetsWriter(cmd *cobra.Command) (*sheets.Writer, error) {
	cfg := sheets.DefaultConfig()
	cfg.ClientID = configValue("sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID")
	cfg.ClientSecret = configValue("sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET")
	cfg.RefreshToken = configValue("sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN")
	cfg.TokenFile = expandPath(configValue("sheets.token_file", "GOOGLE_SHEETS_TOKEN_FILE"))
	cfg.ServiceAccountPath = expandPath(configValue("sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	cfg.SpreadsheetID = configValue("sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")

	if name := viper.GetString("sheets.spreadsheet_name"); name != "" {
		cfg.SpreadsheetName = name
	}
	if tz := viper.GetString("sheets.time_zone"); tz != "" {
		cfg.TimeZone = tz
	}
	if delay := viper.GetDuration("sheets.retry_delay"); delay > 0 {
		cfg.RetryDelay = delay
	} else {
		cfg.RetryDelay = time.Second
	}

	return sheets.NewWriter(cmd.Context(), cfg, slog.Default())
}
