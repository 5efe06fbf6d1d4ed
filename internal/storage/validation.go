package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/splitsage/splitsage/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidExpense = errors.New("invalid expense")
	ErrInvalidScope   = errors.New("invalid month scope")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMonth ensures a scope token looks like YYYY-MM.
func validateMonth(month string) error {
	if len(month) != 7 || month[4] != '-' {
		return fmt.Errorf("%w: %q", ErrInvalidScope, month)
	}
	return nil
}

// validateExpenses validates a slice of expenses.
func validateExpenses(expenses []model.Expense) error {
	if expenses == nil {
		return fmt.Errorf("%w: expenses", ErrNilParameter)
	}
	if len(expenses) == 0 {
		return fmt.Errorf("%w: expenses", ErrEmptySlice)
	}

	for i, exp := range expenses {
		if err := validateExpense(&exp); err != nil {
			return fmt.Errorf("expense at index %d: %w", i, err)
		}
	}
	return nil
}

// validateExpense validates a single expense record.
func validateExpense(exp *model.Expense) error {
	if exp == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if exp.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidExpense)
	}
	if exp.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if exp.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidExpense)
	}
	if exp.Amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidExpense)
	}
	if exp.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidExpense)
	}
	return nil
}

// validateDecision validates a classification decision before persisting it.
func validateDecision(d *model.Decision) error {
	if d == nil {
		return fmt.Errorf("%w: decision", ErrNilParameter)
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%w: category %q", ErrInvalidExpense, d.Category)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidExpense)
	}
	return nil
}
