// Package aggregate computes spending summaries from stored expense records.
// Summaries are always derived fresh from the store at request time; nothing
// here is persisted, so a re-classification is reflected on the next read.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/splitsage/splitsage/internal/model"
)

// ExpenseReader is the store surface the aggregation service reads from.
type ExpenseReader interface {
	GetExpensesByMonth(ctx context.Context, month string) ([]model.Expense, error)
	GetMonthlyStats(ctx context.Context) ([]model.MonthlyStat, error)
	CountExpenses(ctx context.Context) (int, error)
	CountUncategorized(ctx context.Context) (int, error)
}

// Service computes monthly, year-to-date and comparison summaries.
type Service struct {
	store  ExpenseReader
	logger *slog.Logger
}

// NewService creates an aggregation service over the given store.
func NewService(store ExpenseReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// AvailableMonths returns the distinct YYYY-MM scopes that hold at least one
// record, most recent first.
func (s *Service) AvailableMonths(ctx context.Context) ([]string, error) {
	stats, err := s.store.GetMonthlyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}

	// Stats are grouped by month and currency, so a month can repeat.
	months := make([]string, 0, len(stats))
	seen := make(map[string]bool, len(stats))
	for _, stat := range stats {
		if !seen[stat.Month] {
			seen[stat.Month] = true
			months = append(months, stat.Month)
		}
	}
	return months, nil
}

// MonthlySummary aggregates one YYYY-MM scope. A month with no records
// yields (nil, nil) so callers can distinguish absence from an empty result.
func (s *Service) MonthlySummary(ctx context.Context, month string) (*model.MonthlySummary, error) {
	expenses, err := s.store.GetExpensesByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses for %s: %w", month, err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	summary := &model.MonthlySummary{
		Month:            month,
		Currency:         expenses[0].Currency,
		TransactionCount: len(expenses),
	}

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for i := range expenses {
		exp := &expenses[i]
		summary.TotalSpent += exp.Amount
		if exp.Categorized() {
			summary.CategorizedCount++
		} else {
			summary.UncategorizedCount++
		}

		name := exp.EffectiveCategory()
		b, ok := buckets[name]
		if !ok {
			b = &bucket{}
			buckets[name] = b
			order = append(order, name)
		}
		b.total += exp.Amount
		b.count++

		summary.AllTransactions = append(summary.AllTransactions, transactionEntry(exp))
	}

	summary.ByCategory = make([]model.CategorySummary, 0, len(order))
	for _, name := range order {
		b := buckets[name]
		cat := model.CategorySummary{
			Name:              name,
			Total:             b.total,
			Count:             b.count,
			AvgPerTransaction: b.total / float64(b.count),
		}
		if summary.TotalSpent > 0 {
			cat.Percentage = b.total / summary.TotalSpent * 100
		}
		summary.ByCategory = append(summary.ByCategory, cat)
	}
	sort.SliceStable(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Total > summary.ByCategory[j].Total
	})

	summary.Top5Expenses = topExpenses(summary.AllTransactions, 5)

	s.logger.Debug("monthly summary computed",
		"month", month,
		"transactions", summary.TransactionCount,
		"total", summary.TotalSpent)

	return summary, nil
}

// YearToDateSummary aggregates every populated month of one calendar year.
// Category totals are merged across months and percentages recomputed
// against the year total. A year with no records yields (nil, nil).
func (s *Service) YearToDateSummary(ctx context.Context, year int) (*model.YTDSummary, error) {
	summary := &model.YTDSummary{Year: year}

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for m := 1; m <= 12; m++ {
		month := fmt.Sprintf("%04d-%02d", year, m)
		monthly, err := s.MonthlySummary(ctx, month)
		if err != nil {
			return nil, err
		}
		if monthly == nil {
			continue
		}

		summary.MonthlySummaries = append(summary.MonthlySummaries, monthly)
		summary.TotalSpent += monthly.TotalSpent
		summary.TransactionCount += monthly.TransactionCount

		for _, cat := range monthly.ByCategory {
			b, ok := buckets[cat.Name]
			if !ok {
				b = &bucket{}
				buckets[cat.Name] = b
				order = append(order, cat.Name)
			}
			b.total += cat.Total
			b.count += cat.Count
		}
	}

	if len(summary.MonthlySummaries) == 0 {
		return nil, nil
	}

	summary.MonthCount = len(summary.MonthlySummaries)
	summary.AvgMonthlySpend = summary.TotalSpent / float64(summary.MonthCount)

	summary.ByCategory = make([]model.CategorySummary, 0, len(order))
	for _, name := range order {
		b := buckets[name]
		cat := model.CategorySummary{
			Name:              name,
			Total:             b.total,
			Count:             b.count,
			AvgPerTransaction: b.total / float64(b.count),
		}
		if summary.TotalSpent > 0 {
			cat.Percentage = b.total / summary.TotalSpent * 100
		}
		summary.ByCategory = append(summary.ByCategory, cat)
	}
	sort.SliceStable(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Total > summary.ByCategory[j].Total
	})

	return summary, nil
}

// CompareMonths computes per-category movement between two months. The
// category set is the union of both months; a category absent from the
// first month reports a 100 percent change by convention. Results are
// ordered by absolute change, largest first. If either month holds no
// records the comparison is (nil, nil).
func (s *Service) CompareMonths(ctx context.Context, month1, month2 string) (*model.MonthComparison, error) {
	first, err := s.MonthlySummary(ctx, month1)
	if err != nil {
		return nil, err
	}
	second, err := s.MonthlySummary(ctx, month2)
	if err != nil {
		return nil, err
	}
	if first == nil || second == nil {
		return nil, nil
	}

	comparison := &model.MonthComparison{Month1: month1, Month2: month2}

	amounts1 := categoryAmounts(first)
	amounts2 := categoryAmounts(second)

	order := make([]string, 0, len(amounts1)+len(amounts2))
	seen := make(map[string]bool)
	for _, cat := range first.ByCategory {
		if !seen[cat.Name] {
			seen[cat.Name] = true
			order = append(order, cat.Name)
		}
	}
	for _, cat := range second.ByCategory {
		if !seen[cat.Name] {
			seen[cat.Name] = true
			order = append(order, cat.Name)
		}
	}

	for _, name := range order {
		a1 := amounts1[name]
		a2 := amounts2[name]

		cc := model.CategoryComparison{
			Category:     name,
			Month1Amount: a1,
			Month2Amount: a2,
			Change:       a2 - a1,
		}
		if a1 != 0 {
			cc.ChangePercent = (a2 - a1) / a1 * 100
		} else {
			// A category with no first-month spend reports 100 percent,
			// even when the second month is also zero.
			cc.ChangePercent = 100
		}
		comparison.CategoryComparisons = append(comparison.CategoryComparisons, cc)
	}

	sort.SliceStable(comparison.CategoryComparisons, func(i, j int) bool {
		return math.Abs(comparison.CategoryComparisons[i].Change) > math.Abs(comparison.CategoryComparisons[j].Change)
	})

	comparison.TotalChange = second.TotalSpent - first.TotalSpent
	if first.TotalSpent != 0 {
		comparison.TotalChangePercent = comparison.TotalChange / first.TotalSpent * 100
	}

	return comparison, nil
}

// Stats returns the coarse dataset overview: record counts, classification
// coverage and the most recent populated month.
func (s *Service) Stats(ctx context.Context) (*model.StoreStats, error) {
	total, err := s.store.CountExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}
	uncategorized, err := s.store.CountUncategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count uncategorized: %w", err)
	}
	months, err := s.AvailableMonths(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.StoreStats{
		TotalExpenses: total,
		Categorized:   total - uncategorized,
		Uncategorized: uncategorized,
		MonthsTracked: len(months),
	}
	if len(months) > 0 {
		stats.LatestMonth = months[0]
	}
	return stats, nil
}

func transactionEntry(exp *model.Expense) model.TransactionEntry {
	return model.TransactionEntry{
		ID:          exp.ID,
		Date:        exp.Date.Format("2006-01-02"),
		Description: exp.Description,
		Category:    exp.EffectiveCategory(),
		Group:       exp.GroupName,
		Amount:      exp.Amount,
		Confidence:  exp.Confidence,
	}
}

// topExpenses returns the n largest transactions by amount without
// disturbing the input's date order.
func topExpenses(entries []model.TransactionEntry, n int) []model.TransactionEntry {
	sorted := make([]model.TransactionEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func categoryAmounts(summary *model.MonthlySummary) map[string]float64 {
	amounts := make(map[string]float64, len(summary.ByCategory))
	for _, cat := range summary.ByCategory {
		amounts[cat.Name] = cat.Total
	}
	return amounts
}
