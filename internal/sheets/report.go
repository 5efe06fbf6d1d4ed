package sheets

import (
	"fmt"

	"github.com/splitsage/splitsage/internal/model"
)

// prepareMonthlyData lays out one month as spreadsheet rows: summary block,
// category breakdown, top expenses, then the full transaction listing.
func prepareMonthlyData(summary *model.MonthlySummary) [][]any {
	estimatedRows := 16 + len(summary.ByCategory) + len(summary.Top5Expenses) + len(summary.AllTransactions)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{"Expense Report", summary.Month},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Spent", summary.TotalSpent},
		[]any{"Transactions", summary.TransactionCount},
		[]any{"Categorized", summary.CategorizedCount},
		[]any{"Uncategorized", summary.UncategorizedCount},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Count", "Amount", "Share", "Avg per Transaction"},
	)

	for _, cat := range summary.ByCategory {
		values = append(values, []any{
			cat.Name,
			cat.Count,
			cat.Total,
			fmt.Sprintf("%.1f%%", cat.Percentage),
			cat.AvgPerTransaction,
		})
	}

	values = append(values,
		[]any{},
		[]any{"Top Expenses"},
		[]any{"Date", "Description", "Amount", "Category"},
	)
	for _, entry := range summary.Top5Expenses {
		values = append(values, []any{entry.Date, entry.Description, entry.Amount, entry.Category})
	}

	values = append(values,
		[]any{},
		[]any{"All Transactions"},
		[]any{"Date", "Description", "Amount", "Category", "Group", "Confidence"},
	)
	for _, entry := range summary.AllTransactions {
		values = append(values, []any{
			entry.Date,
			entry.Description,
			entry.Amount,
			entry.Category,
			entry.Group,
			fmt.Sprintf("%.2f", entry.Confidence),
		})
	}

	return values
}

// prepareYTDData lays out a year as spreadsheet rows: overview, merged
// category totals, then the month-by-month trend.
func prepareYTDData(summary *model.YTDSummary) [][]any {
	estimatedRows := 12 + len(summary.ByCategory) + len(summary.MonthlySummaries)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{"Year to Date Report", fmt.Sprintf("%d", summary.Year)},
		[]any{},
		[]any{"Overview"},
		[]any{"Total Spent", summary.TotalSpent},
		[]any{"Transactions", summary.TransactionCount},
		[]any{"Months Tracked", summary.MonthCount},
		[]any{"Avg Monthly Spend", summary.AvgMonthlySpend},
		[]any{},
		[]any{"Category Totals"},
		[]any{"Category", "Count", "Amount", "Share"},
	)

	for _, cat := range summary.ByCategory {
		values = append(values, []any{
			cat.Name,
			cat.Count,
			cat.Total,
			fmt.Sprintf("%.1f%%", cat.Percentage),
		})
	}

	values = append(values,
		[]any{},
		[]any{"Monthly Trend"},
		[]any{"Month", "Transactions", "Total Spent"},
	)
	for _, monthly := range summary.MonthlySummaries {
		values = append(values, []any{monthly.Month, monthly.TransactionCount, monthly.TotalSpent})
	}

	return values
}
