package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/splitsage/splitsage/internal/aggregate"
	"github.com/splitsage/splitsage/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show spending summaries",
		Long: `Render monthly, year-to-date or month-over-month spending summaries in
the terminal.

Examples:
  splitsage report                             # Latest month
  splitsage report --month 2026-02             # Specific month
  splitsage report --ytd 2026                  # Year to date
  splitsage report --compare 2026-01,2026-02   # Compare two months`,
		RunE: runReport,
	}

	cmd.Flags().StringP("month", "m", "", "month to report on (format: 2026-02, default: latest)")
	cmd.Flags().Int("ytd", 0, "year-to-date report for the given year")
	cmd.Flags().String("compare", "", "compare two months (format: 2026-01,2026-02)")

	_ = viper.BindPFlag("report.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("report.ytd", cmd.Flags().Lookup("ytd"))
	_ = viper.BindPFlag("report.compare", cmd.Flags().Lookup("compare"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := aggregate.NewService(store, slog.Default())

	if pair := viper.GetString("report.compare"); pair != "" {
		return runCompareReport(cmd, svc, pair)
	}
	if year := viper.GetInt("report.ytd"); year != 0 {
		return runYTDReport(cmd, svc, year)
	}

	month := viper.GetString("report.month")
	if month == "" {
		months, monthsErr := svc.AvailableMonths(ctx)
		if monthsErr != nil {
			return monthsErr
		}
		if len(months) == 0 {
			return fmt.Errorf("no expenses in the database, run 'splitsage sync' first")
		}
		month = months[0]
	} else {
		if month, err = parseMonthFlag(month); err != nil {
			return err
		}
	}

	summary, err := svc.MonthlySummary(ctx, month)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no expenses found for %s", month)
	}

	printMonthlySummary(cmd, summary)
	return nil
}

func printMonthlySummary(cmd *cobra.Command, summary *model.MonthlySummary) {
	cmd.Println(titleStyle.Render(fmt.Sprintf("Spending for %s", summary.Month)))
	cmd.Printf("Total: %.2f %s across %d transactions\n",
		summary.TotalSpent, summary.Currency, summary.TransactionCount)
	if summary.UncategorizedCount > 0 {
		cmd.Println(mutedStyle.Render(
			fmt.Sprintf("%d transactions are uncategorized, run 'splitsage categorize'", summary.UncategorizedCount)))
	}
	cmd.Println()

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-20s %8s %12s %8s", "Category", "Count", "Amount", "Share")))
	for _, cat := range summary.ByCategory {
		cmd.Printf("%-20s %8d %12.2f %7.1f%%\n", cat.Name, cat.Count, cat.Total, cat.Percentage)
	}
	cmd.Println()

	cmd.Println(headerStyle.Render("Top expenses"))
	for _, entry := range summary.Top5Expenses {
		cmd.Printf("%s  %10.2f  %s %s\n",
			entry.Date, entry.Amount, entry.Description,
			mutedStyle.Render("("+entry.Category+")"))
	}
}

func runYTDReport(cmd *cobra.Command, svc *aggregate.Service, year int) error {
	summary, err := svc.YearToDateSummary(cmd.Context(), year)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no expenses found for %d", year)
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("Year to date: %d", summary.Year)))
	cmd.Printf("Total: %.2f across %d transactions in %d months (avg %.2f/month)\n\n",
		summary.TotalSpent, summary.TransactionCount, summary.MonthCount, summary.AvgMonthlySpend)

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-20s %8s %12s %8s", "Category", "Count", "Amount", "Share")))
	for _, cat := range summary.ByCategory {
		cmd.Printf("%-20s %8d %12.2f %7.1f%%\n", cat.Name, cat.Count, cat.Total, cat.Percentage)
	}
	cmd.Println()

	cmd.Println(headerStyle.Render("Monthly trend"))
	for _, monthly := range summary.MonthlySummaries {
		cmd.Printf("%s  %12.2f  %s\n",
			monthly.Month, monthly.TotalSpent,
			mutedStyle.Render(fmt.Sprintf("%d transactions", monthly.TransactionCount)))
	}

	return nil
}

func runCompareReport(cmd *cobra.Command, svc *aggregate.Service, pair string) error {
	parts := strings.Split(pair, ",")
	if len(parts) != 2 {
		return fmt.Errorf("invalid --compare value %q, expected two months like 2026-01,2026-02", pair)
	}

	month1, err := parseMonthFlag(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	month2, err := parseMonthFlag(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}

	comparison, err := svc.CompareMonths(cmd.Context(), month1, month2)
	if err != nil {
		return err
	}
	if comparison == nil {
		return fmt.Errorf("no expenses found for %s or %s", month1, month2)
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("%s vs %s", comparison.Month1, comparison.Month2)))
	cmd.Printf("Total change: %+.2f (%+.1f%%)\n\n", comparison.TotalChange, comparison.TotalChangePercent)

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-20s %12s %12s %12s %9s",
		"Category", comparison.Month1, comparison.Month2, "Change", "Percent")))
	for _, cc := range comparison.CategoryComparisons {
		cmd.Printf("%-20s %12.2f %12.2f %+12.2f %+8.1f%%\n",
			cc.Category, cc.Month1Amount, cc.Month2Amount, cc.Change, cc.ChangePercent)
	}

	return nil
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories expenses are classified into",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(titleStyle.Render("Categories"))
			for _, cat := range model.AllCategories() {
				cmd.Printf("  %s\n", cat)
			}
		},
	}
}
