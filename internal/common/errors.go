// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Feed errors.
	ErrSplitwiseConnection = errors.New("splitwise connection failed")

	// Classification errors.
	ErrNoExpenses = errors.New("no expenses to classify")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
