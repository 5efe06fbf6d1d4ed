package engine

import (
	"context"

	"github.com/splitsage/splitsage/internal/model"
)

// Oracle is the external categorization service consulted on a cache miss.
// Implementations must return a decision whose category is already validated
// against the closed vocabulary.
type Oracle interface {
	Categorize(ctx context.Context, expense model.Expense) (model.Decision, error)
}

// CacheStore is the durable classification cache collaborator. A lookup miss
// is (nil, nil), not an error.
type CacheStore interface {
	GetCacheEntry(ctx context.Context, key string) (*model.CacheEntry, error)
	PutCacheEntry(ctx context.Context, key string, d model.Decision) error
	BumpCacheHit(ctx context.Context, key string) error
}

// Pacer gates the interval between consecutive oracle calls. The batch
// driver consults it after every real oracle call; cache hits never do.
type Pacer interface {
	Wait(ctx context.Context) error
}
