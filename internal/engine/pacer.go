package engine

import (
	"context"
	"fmt"
	"time"
)

// DefaultPacingInterval is the minimum gap between consecutive oracle calls.
const DefaultPacingInterval = 100 * time.Millisecond

// intervalPacer enforces a fixed minimum interval between calls.
type intervalPacer struct {
	interval time.Duration
}

// NewIntervalPacer creates a pacer with the given interval. Zero or negative
// intervals fall back to DefaultPacingInterval.
func NewIntervalPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		interval = DefaultPacingInterval
	}
	return &intervalPacer{interval: interval}
}

// Wait blocks for the configured interval or until the context is canceled.
func (p *intervalPacer) Wait(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("pacing interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
