// Package engine implements the classification pipeline: deterministic
// cache-key derivation, cache-first classification with a degraded fallback
// when the oracle is unreachable, and the paced sequential batch driver.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/splitsage/splitsage/internal/model"
)

// CacheKey derives the deterministic lookup key for an expense. Descriptions
// are lower-cased and trimmed, and amounts are bucketed into width-10 bins so
// near-duplicate transactions at the same merchant collapse onto one entry:
// $23.50 and $27.10 share a bucket, $30.00 does not.
func CacheKey(description string, amount float64, groupName string) string {
	normalized := strings.ToLower(strings.TrimSpace(description))
	amountBucket := int(math.Floor(amount/10)) * 10
	if groupName == "" {
		groupName = "none"
	}
	return fmt.Sprintf("%s_%d_%s", normalized, amountBucket, groupName)
}

// Config holds tunables for the classifier engine.
type Config struct {
	Logger         *slog.Logger
	Pacer          Pacer
	PacingInterval time.Duration
}

// Engine classifies expenses through the cache-then-oracle pipeline.
type Engine struct {
	oracle Oracle
	cache  CacheStore
	pacer  Pacer
	logger *slog.Logger
}

// New creates a classifier engine over the given collaborators.
func New(oracle Oracle, cache CacheStore, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = NewIntervalPacer(cfg.PacingInterval)
	}

	return &Engine{
		oracle: oracle,
		cache:  cache,
		pacer:  pacer,
		logger: logger,
	}
}

// Classify produces a decision for one expense. Cache hits are returned
// without an oracle call and bump the entry's hit counter. Oracle failures
// degrade to Other with zero confidence and are never cached, so a later
// attempt re-queries the oracle instead of replaying the failure.
func (e *Engine) Classify(ctx context.Context, expense model.Expense) model.Decision {
	key := CacheKey(expense.Description, expense.Amount, expense.GroupName)

	entry, err := e.cache.GetCacheEntry(ctx, key)
	if err != nil {
		e.logger.Warn("cache lookup failed, treating as miss",
			"expense_id", expense.ID,
			"error", err)
	}

	if entry != nil {
		if bumpErr := e.cache.BumpCacheHit(ctx, key); bumpErr != nil {
			e.logger.Warn("failed to bump cache hit count",
				"key", key,
				"error", bumpErr)
		}

		reason := entry.Reason
		if reason == "" {
			reason = "From cache"
		}

		e.logger.Debug("cache hit",
			"expense_id", expense.ID,
			"category", entry.Category)

		return model.Decision{
			Category:   entry.Category,
			Confidence: entry.Confidence,
			Reason:     reason,
			FromCache:  true,
		}
	}

	decision, err := e.oracle.Categorize(ctx, expense)
	if err != nil {
		e.logger.Error("oracle categorization failed",
			"expense_id", expense.ID,
			"description", expense.Description,
			"error", err)

		return model.Decision{
			Category:   model.CategoryOther,
			Confidence: 0.0,
			Reason:     fmt.Sprintf("Error: %v", err),
		}
	}

	if putErr := e.cache.PutCacheEntry(ctx, key, decision); putErr != nil {
		e.logger.Warn("failed to cache decision",
			"key", key,
			"error", putErr)
	}

	e.logger.Info("expense classified",
		"expense_id", expense.ID,
		"category", decision.Category,
		"confidence", decision.Confidence)

	return decision
}

// Progress is the per-record snapshot handed to a progress callback.
type Progress struct {
	Current     int
	Total       int
	CacheHits   int
	OracleCalls int
}

// ProgressFunc receives a snapshot after every processed record.
type ProgressFunc func(Progress)

// CategorizeExpenses runs the batch driver over the records in input order.
// A record whose classification fails degrades to Other and the batch
// continues. After every real oracle call, and only when records remain, the
// pacer gates the next call; cache hits never incur the delay. The returned
// error is non-nil only when the context is canceled mid-batch, in which
// case the decisions made so far are still returned.
func (e *Engine) CategorizeExpenses(ctx context.Context, expenses []model.Expense, onProgress ProgressFunc) ([]model.ExpenseDecision, model.BatchStats, error) {
	decisions := make([]model.ExpenseDecision, 0, len(expenses))
	stats := model.BatchStats{Total: len(expenses)}

	for i, expense := range expenses {
		select {
		case <-ctx.Done():
			return decisions, finalizeStats(stats, len(decisions)), ctx.Err()
		default:
		}

		decision := e.Classify(ctx, expense)

		if decision.FromCache {
			stats.CacheHits++
		} else {
			stats.OracleCalls++
		}

		decisions = append(decisions, model.ExpenseDecision{
			ExpenseID: expense.ID,
			Decision:  decision,
		})

		if onProgress != nil {
			onProgress(Progress{
				Current:     i + 1,
				Total:       len(expenses),
				CacheHits:   stats.CacheHits,
				OracleCalls: stats.OracleCalls,
			})
		}

		if !decision.FromCache && i < len(expenses)-1 {
			if err := e.pacer.Wait(ctx); err != nil {
				return decisions, finalizeStats(stats, len(decisions)), err
			}
		}
	}

	return decisions, finalizeStats(stats, len(expenses)), nil
}

// finalizeStats computes the hit rate, guarding the empty batch.
func finalizeStats(stats model.BatchStats, processed int) model.BatchStats {
	if processed > 0 {
		stats.CacheHitRate = float64(stats.CacheHits) / float64(processed)
	}
	return stats
}
