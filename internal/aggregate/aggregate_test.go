package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitsage/splitsage/internal/model"
)

type fakeStore struct {
	expenses []model.Expense
	err      error
}

func (f *fakeStore) GetExpensesByMonth(_ context.Context, month string) ([]model.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Expense
	for _, exp := range f.expenses {
		if exp.Month() == month {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (f *fakeStore) GetMonthlyStats(_ context.Context) ([]model.MonthlyStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	var stats []model.MonthlyStat
	seen := make(map[string]int)
	for _, exp := range f.expenses {
		key := exp.Month() + "|" + exp.Currency
		if idx, ok := seen[key]; ok {
			stats[idx].TransactionCount++
			stats[idx].TotalAmount += exp.Amount
			continue
		}
		seen[key] = len(stats)
		stats = append(stats, model.MonthlyStat{
			Month:            exp.Month(),
			Currency:         exp.Currency,
			TransactionCount: 1,
			TotalAmount:      exp.Amount,
		})
	}
	// Most recent month first, matching the store's ordering.
	for i := 0; i < len(stats); i++ {
		for j := i + 1; j < len(stats); j++ {
			if stats[j].Month > stats[i].Month {
				stats[i], stats[j] = stats[j], stats[i]
			}
		}
	}
	return stats, nil
}

func (f *fakeStore) CountExpenses(context.Context) (int, error) {
	return len(f.expenses), f.err
}

func (f *fakeStore) CountUncategorized(context.Context) (int, error) {
	n := 0
	for _, exp := range f.expenses {
		if !exp.Categorized() {
			n++
		}
	}
	return n, f.err
}

func newTestService(store ExpenseReader) *Service {
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func day(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMonthlySummary(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "sw_1", Date: day("2026-02-03"), Description: "Costco", Amount: 40, Currency: "USD", Category: model.CategoryGroceries, Confidence: 0.95},
		{ID: "sw_2", Date: day("2026-02-10"), Description: "Starbucks", Amount: 15, Currency: "USD", Category: model.CategoryFoodDining, Confidence: 0.9},
		{ID: "sw_3", Date: day("2026-02-14"), Description: "Wire transfer", Amount: 100, Currency: "USD"},
	}}

	summary, err := newTestService(store).MonthlySummary(context.Background(), "2026-02")
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "2026-02", summary.Month)
	assert.Equal(t, "USD", summary.Currency)
	assert.InDelta(t, 155.0, summary.TotalSpent, 1e-9)
	assert.Equal(t, 3, summary.TransactionCount)
	assert.Equal(t, 2, summary.CategorizedCount)
	assert.Equal(t, 1, summary.UncategorizedCount)

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, model.UncategorizedLabel, summary.ByCategory[0].Name)
	assert.InDelta(t, 100.0, summary.ByCategory[0].Total, 1e-9)
	assert.Equal(t, "Groceries", summary.ByCategory[1].Name)
	assert.Equal(t, "Food & Dining", summary.ByCategory[2].Name)
	assert.InDelta(t, 100.0/155.0*100, summary.ByCategory[0].Percentage, 1e-9)
	assert.InDelta(t, 40.0, summary.ByCategory[1].AvgPerTransaction, 1e-9)

	require.Len(t, summary.Top5Expenses, 3)
	assert.InDelta(t, 100.0, summary.Top5Expenses[0].Amount, 1e-9)
	assert.InDelta(t, 40.0, summary.Top5Expenses[1].Amount, 1e-9)
	assert.InDelta(t, 15.0, summary.Top5Expenses[2].Amount, 1e-9)

	require.Len(t, summary.AllTransactions, 3)
	assert.Equal(t, "2026-02-03", summary.AllTransactions[0].Date)
	assert.Equal(t, model.UncategorizedLabel, summary.AllTransactions[2].Category)
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	summary, err := newTestService(&fakeStore{}).MonthlySummary(context.Background(), "2026-05")
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestMonthlySummaryTopFiveCapped(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 8; i++ {
		store.expenses = append(store.expenses, model.Expense{
			ID:          string(rune('a' + i)),
			Date:        day("2026-03-01"),
			Description: "item",
			Amount:      float64(10 * (i + 1)),
			Currency:    "USD",
		})
	}

	summary, err := newTestService(store).MonthlySummary(context.Background(), "2026-03")
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Len(t, summary.Top5Expenses, 5)
	assert.InDelta(t, 80.0, summary.Top5Expenses[0].Amount, 1e-9)
	assert.InDelta(t, 40.0, summary.Top5Expenses[4].Amount, 1e-9)
	assert.Len(t, summary.AllTransactions, 8)
}

func TestAvailableMonths(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "1", Date: day("2026-01-05"), Description: "a", Amount: 1, Currency: "USD"},
		{ID: "2", Date: day("2026-01-20"), Description: "b", Amount: 2, Currency: "EUR"},
		{ID: "3", Date: day("2026-03-02"), Description: "c", Amount: 3, Currency: "USD"},
	}}

	months, err := newTestService(store).AvailableMonths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03", "2026-01"}, months)
}

func TestYearToDateSummary(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "1", Date: day("2026-01-10"), Description: "Rent payment", Amount: 1200, Currency: "USD", Category: model.CategoryRent},
		{ID: "2", Date: day("2026-01-15"), Description: "Costco", Amount: 80, Currency: "USD", Category: model.CategoryGroceries},
		{ID: "3", Date: day("2026-02-10"), Description: "Rent payment", Amount: 1200, Currency: "USD", Category: model.CategoryRent},
		{ID: "4", Date: day("2026-02-20"), Description: "Safeway", Amount: 120, Currency: "USD", Category: model.CategoryGroceries},
	}}

	summary, err := newTestService(store).YearToDateSummary(context.Background(), 2026)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 2, summary.MonthCount)
	assert.Equal(t, 4, summary.TransactionCount)
	assert.InDelta(t, 2600.0, summary.TotalSpent, 1e-9)
	assert.InDelta(t, 1300.0, summary.AvgMonthlySpend, 1e-9)

	require.Len(t, summary.MonthlySummaries, 2)
	assert.Equal(t, "2026-01", summary.MonthlySummaries[0].Month)
	assert.Equal(t, "2026-02", summary.MonthlySummaries[1].Month)

	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, "Rent", summary.ByCategory[0].Name)
	assert.InDelta(t, 2400.0, summary.ByCategory[0].Total, 1e-9)
	assert.Equal(t, 2, summary.ByCategory[0].Count)
	assert.InDelta(t, 2400.0/2600.0*100, summary.ByCategory[0].Percentage, 1e-9)
}

func TestYearToDateSummaryEmptyYear(t *testing.T) {
	summary, err := newTestService(&fakeStore{}).YearToDateSummary(context.Background(), 2020)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestCompareMonths(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "1", Date: day("2026-01-05"), Description: "Costco", Amount: 100, Currency: "USD", Category: model.CategoryGroceries},
		{ID: "2", Date: day("2026-01-12"), Description: "Chipotle", Amount: 50, Currency: "USD", Category: model.CategoryFoodDining},
		{ID: "3", Date: day("2026-02-06"), Description: "Costco", Amount: 150, Currency: "USD", Category: model.CategoryGroceries},
		{ID: "4", Date: day("2026-02-18"), Description: "Delta", Amount: 400, Currency: "USD", Category: model.CategoryTravel},
	}}

	cmp, err := newTestService(store).CompareMonths(context.Background(), "2026-01", "2026-02")
	require.NoError(t, err)
	require.NotNil(t, cmp)

	assert.Equal(t, "2026-01", cmp.Month1)
	assert.Equal(t, "2026-02", cmp.Month2)
	assert.InDelta(t, 400.0, cmp.TotalChange, 1e-9)
	assert.InDelta(t, 400.0/150.0*100, cmp.TotalChangePercent, 1e-9)

	require.Len(t, cmp.CategoryComparisons, 3)

	// Largest absolute change first.
	travel := cmp.CategoryComparisons[0]
	assert.Equal(t, "Travel", travel.Category)
	assert.InDelta(t, 0.0, travel.Month1Amount, 1e-9)
	assert.InDelta(t, 400.0, travel.Month2Amount, 1e-9)
	assert.InDelta(t, 100.0, travel.ChangePercent, 1e-9)

	dining := cmp.CategoryComparisons[1]
	assert.Equal(t, "Food & Dining", dining.Category)
	assert.InDelta(t, -50.0, dining.Change, 1e-9)
	assert.InDelta(t, -100.0, dining.ChangePercent, 1e-9)

	groceries := cmp.CategoryComparisons[2]
	assert.Equal(t, "Groceries", groceries.Category)
	assert.InDelta(t, 50.0, groceries.Change, 1e-9)
	assert.InDelta(t, 50.0, groceries.ChangePercent, 1e-9)
}

func TestCompareMonthsZeroAmountCategory(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "1", Date: day("2026-01-05"), Description: "Costco", Amount: 100, Currency: "USD", Category: model.CategoryGroceries},
		{ID: "2", Date: day("2026-02-06"), Description: "Costco", Amount: 100, Currency: "USD", Category: model.CategoryGroceries},
		{ID: "3", Date: day("2026-02-18"), Description: "Delta voucher", Amount: 0, Currency: "USD", Category: model.CategoryTravel},
	}}

	cmp, err := newTestService(store).CompareMonths(context.Background(), "2026-01", "2026-02")
	require.NoError(t, err)
	require.NotNil(t, cmp)
	require.Len(t, cmp.CategoryComparisons, 2)

	// Zero change in both categories; insertion order is kept.
	groceries := cmp.CategoryComparisons[0]
	assert.Equal(t, "Groceries", groceries.Category)
	assert.InDelta(t, 0.0, groceries.Change, 1e-9)
	assert.InDelta(t, 0.0, groceries.ChangePercent, 1e-9)

	// A category totaling zero in the first month reports 100 percent
	// regardless of its second-month total.
	travel := cmp.CategoryComparisons[1]
	assert.Equal(t, "Travel", travel.Category)
	assert.InDelta(t, 0.0, travel.Month1Amount, 1e-9)
	assert.InDelta(t, 0.0, travel.Month2Amount, 1e-9)
	assert.InDelta(t, 0.0, travel.Change, 1e-9)
	assert.InDelta(t, 100.0, travel.ChangePercent, 1e-9)
}

func TestCompareMonthsEmptyMonth(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "1", Date: day("2026-02-06"), Description: "Costco", Amount: 150, Currency: "USD", Category: model.CategoryGroceries},
	}}

	cmp, err := newTestService(store).CompareMonths(context.Background(), "2026-01", "2026-02")
	require.NoError(t, err)
	assert.Nil(t, cmp, "a comparison involving an empty month has no result")
}

func TestStats(t *testing.T) {
	store := &fakeStore{expenses: []model.Expense{
		{ID: "1", Date: day("2026-01-05"), Description: "a", Amount: 1, Currency: "USD", Category: model.CategoryOther},
		{ID: "2", Date: day("2026-02-05"), Description: "b", Amount: 2, Currency: "USD"},
	}}

	stats, err := newTestService(store).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalExpenses)
	assert.Equal(t, 1, stats.Categorized)
	assert.Equal(t, 1, stats.Uncategorized)
	assert.Equal(t, 2, stats.MonthsTracked)
	assert.Equal(t, "2026-02", stats.LatestMonth)
}

func TestMonthlySummaryStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("database locked")}
	_, err := newTestService(store).MonthlySummary(context.Background(), "2026-01")
	require.Error(t, err)
}
