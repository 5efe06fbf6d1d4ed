package model

import "time"

// Decision is the outcome of classifying one expense: the category plus the
// oracle's confidence and one-line reasoning. FromCache marks decisions
// served from the classification cache without an oracle call.
type Decision struct {
	Category   Category `json:"category"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
	FromCache  bool     `json:"fromCache"`
}

// ExpenseDecision pairs a decision with the expense it was made for.
type ExpenseDecision struct {
	ExpenseID string `json:"expenseId"`
	Decision
}

// CacheEntry is a durable classification decision keyed by the derived cache
// key. HitCount counts reuses; entries are never expired.
type CacheEntry struct {
	UpdatedAt  time.Time
	Key        string
	Category   Category
	Reason     string
	Confidence float64
	HitCount   int
}

// BatchStats summarizes one run of the batch classifier.
type BatchStats struct {
	Total        int     `json:"total"`
	CacheHits    int     `json:"cacheHits"`
	OracleCalls  int     `json:"apiCalls"`
	CacheHitRate float64 `json:"cacheHitRate"`
}
