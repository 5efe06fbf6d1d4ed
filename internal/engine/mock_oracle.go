package engine

import (
	"context"
	"sync"

	"github.com/splitsage/splitsage/internal/model"
)

// MockOracle is a scriptable Oracle implementation for tests.
type MockOracle struct {
	// CategorizeFunc, when set, handles every call.
	CategorizeFunc func(ctx context.Context, expense model.Expense) (model.Decision, error)

	// Decision and Err are returned when CategorizeFunc is nil.
	Decision model.Decision
	Err      error

	mu    sync.Mutex
	calls []model.Expense
}

// Categorize implements the Oracle interface.
func (m *MockOracle) Categorize(ctx context.Context, expense model.Expense) (model.Decision, error) {
	m.mu.Lock()
	m.calls = append(m.calls, expense)
	m.mu.Unlock()

	if m.CategorizeFunc != nil {
		return m.CategorizeFunc(ctx, expense)
	}
	return m.Decision, m.Err
}

// CallCount returns how many times the oracle was consulted.
func (m *MockOracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the expenses the oracle was consulted for.
func (m *MockOracle) Calls() []model.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Expense, len(m.calls))
	copy(out, m.calls)
	return out
}

// memoryCache is an in-memory CacheStore for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*model.CacheEntry
}

// NewMemoryCache creates an empty in-memory cache store.
func NewMemoryCache() CacheStore {
	return &memoryCache{entries: make(map[string]*model.CacheEntry)}
}

func (c *memoryCache) GetCacheEntry(_ context.Context, key string) (*model.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (c *memoryCache) PutCacheEntry(_ context.Context, key string, d model.Decision) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &model.CacheEntry{
		Key:        key,
		Category:   d.Category,
		Confidence: d.Confidence,
		Reason:     d.Reason,
		HitCount:   1,
	}
	return nil
}

func (c *memoryCache) BumpCacheHit(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.HitCount++
	}
	return nil
}
