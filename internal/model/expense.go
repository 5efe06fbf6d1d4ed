package model

import "time"

// Expense represents a single shared-expense record: the payer's own share of
// a transaction, not the total cost. Records are immutable once ingested
// except for the classification fields, which the classifier engine updates
// by id.
type Expense struct {
	Date        time.Time
	ID          string
	Description string
	Currency    string
	GroupName   string
	Notes       string
	RawCategory string // category hint from the source, advisory only

	// Classification fields, set by the classifier engine.
	Category   Category
	Confidence float64
	Reason     string

	Amount float64
}

// Month returns the YYYY-MM scope token the expense falls in.
func (e *Expense) Month() string {
	return e.Date.Format("2006-01")
}

// Categorized reports whether the expense has a classification.
func (e *Expense) Categorized() bool {
	return e.Category != ""
}

// EffectiveCategory resolves the bucket the expense belongs to at summary
// time: its category if set, otherwise the synthetic Uncategorized label.
func (e *Expense) EffectiveCategory() string {
	if e.Category == "" {
		return UncategorizedLabel
	}
	return string(e.Category)
}

// MonthlyStat is one row of the store-side grouped month statistics.
type MonthlyStat struct {
	Month            string
	Currency         string
	TransactionCount int
	TotalAmount      float64
}
