package model

// TransactionEntry is the lightweight per-transaction stub carried by
// summaries. Dates are already normalized to YYYY-MM-DD.
type TransactionEntry struct {
	ID          string  `json:"id,omitempty"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Group       string  `json:"group,omitempty"`
	Amount      float64 `json:"amount"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// CategorySummary is a per-category rollup within a scope. Always computed
// fresh from expense records, never persisted.
type CategorySummary struct {
	Name              string  `json:"name"`
	Total             float64 `json:"total"`
	Count             int     `json:"count"`
	Percentage        float64 `json:"percentage"`
	AvgPerTransaction float64 `json:"avgPerTransaction"`
}

// MonthlySummary aggregates all expenses in one YYYY-MM scope.
type MonthlySummary struct {
	Month              string             `json:"month"`
	Currency           string             `json:"currency"`
	ByCategory         []CategorySummary  `json:"byCategory"`
	Top5Expenses       []TransactionEntry `json:"top5Expenses"`
	AllTransactions    []TransactionEntry `json:"allTransactions"`
	TotalSpent         float64            `json:"totalSpent"`
	TransactionCount   int                `json:"transactionCount"`
	CategorizedCount   int                `json:"categorizedCount"`
	UncategorizedCount int                `json:"uncategorizedCount"`
}

// YTDSummary aggregates every month of one year, with category totals merged
// across months and percentages recomputed against the year total.
type YTDSummary struct {
	ByCategory       []CategorySummary `json:"byCategory"`
	MonthlySummaries []*MonthlySummary `json:"monthlySummaries"`
	Year             int               `json:"year"`
	TotalSpent       float64           `json:"totalSpent"`
	TransactionCount int               `json:"transactionCount"`
	MonthCount       int               `json:"monthCount"`
	AvgMonthlySpend  float64           `json:"avgMonthlySpend"`
}

// CategoryComparison is one category's movement between two months. When the
// category's first-month total is zero, ChangePercent is 100 by convention
// rather than a division by zero.
type CategoryComparison struct {
	Category      string  `json:"category"`
	Month1Amount  float64 `json:"month1Amount"`
	Month2Amount  float64 `json:"month2Amount"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// MonthComparison is the result of comparing two monthly summaries.
type MonthComparison struct {
	Month1              string               `json:"month1"`
	Month2              string               `json:"month2"`
	CategoryComparisons []CategoryComparison `json:"categoryComparisons"`
	TotalChange         float64              `json:"totalChange"`
	TotalChangePercent  float64              `json:"totalChangePercent"`
}

// StoreStats is the coarse dataset overview surfaced by the dashboard.
type StoreStats struct {
	LatestMonth   string `json:"latestMonth,omitempty"`
	TotalExpenses int    `json:"totalExpenses"`
	Categorized   int    `json:"categorized"`
	Uncategorized int    `json:"uncategorized"`
	MonthsTracked int    `json:"monthsTracked"`
}
