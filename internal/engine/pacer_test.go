package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalPacerWaits(t *testing.T) {
	pacer := NewIntervalPacer(20 * time.Millisecond)

	start := time.Now()
	err := pacer.Wait(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestIntervalPacerDefaultsInterval(t *testing.T) {
	pacer := NewIntervalPacer(0)

	ip, ok := pacer.(*intervalPacer)
	require.True(t, ok)
	assert.Equal(t, DefaultPacingInterval, ip.interval)
}

func TestIntervalPacerCanceled(t *testing.T) {
	pacer := NewIntervalPacer(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pacer.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
