package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/splitsage/splitsage/internal/model"
)

// GetCacheEntry looks up a classification decision by its derived key.
// A miss returns (nil, nil).
func (s *SQLiteStorage) GetCacheEntry(ctx context.Context, key string) (*model.CacheEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	var (
		entry     model.CacheEntry
		reason    sql.NullString
		updatedAt sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT description_key, ai_category, ai_confidence, ai_reason, hit_count, updated_at
		FROM category_cache
		WHERE description_key = ?
	`, key).Scan(&entry.Key, (*string)(&entry.Category), &entry.Confidence, &reason, &entry.HitCount, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	entry.Reason = reason.String
	if updatedAt.Valid {
		if ts, parseErr := time.Parse("2006-01-02 15:04:05", updatedAt.String); parseErr == nil {
			entry.UpdatedAt = ts
		}
	}

	return &entry, nil
}

// PutCacheEntry stores a decision under the derived key, resetting the hit
// count to 1. An existing entry for the key is replaced.
func (s *SQLiteStorage) PutCacheEntry(ctx context.Context, key string, d model.Decision) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if err := validateDecision(&d); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO category_cache
		(description_key, ai_category, ai_confidence, ai_reason, hit_count, updated_at)
		VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP)
	`, key, string(d.Category), d.Confidence, d.Reason)
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}

	return nil
}

// BumpCacheHit increments the hit counter for a cache entry.
func (s *SQLiteStorage) BumpCacheHit(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE category_cache
		SET hit_count = hit_count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE description_key = ?
	`, key)
	if err != nil {
		return fmt.Errorf("failed to bump cache hit count: %w", err)
	}

	return nil
}
