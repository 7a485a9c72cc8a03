package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsWithinBudget(t *testing.T) {
	l := New(100, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// The burst covers the full budget; these must not block.
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx))
	}

	m := l.Metrics()
	assert.Equal(t, int64(10), m.TotalWaits)
	assert.Equal(t, int64(10), m.WeightSpent)
	assert.Zero(t, m.DeniedWaits)
}

func TestLimiter_WaitN(t *testing.T) {
	l := New(100, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.WaitN(ctx, 10))
	require.NoError(t, l.WaitN(ctx, 40))

	assert.Equal(t, int64(50), l.Metrics().WeightSpent)
}

func TestLimiter_NonPositiveWeightCountsAsOne(t *testing.T) {
	l := New(100, time.Minute)

	require.NoError(t, l.WaitN(context.Background(), 0))
	require.NoError(t, l.WaitN(context.Background(), -5))

	assert.Equal(t, int64(2), l.Metrics().WeightSpent)
}

func TestLimiter_DeniedWhenContextExpires(t *testing.T) {
	l := New(2, time.Minute)

	// Drain the burst, then the next reservation cannot complete
	// within the context deadline.
	require.NoError(t, l.WaitN(context.Background(), 2))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Equal(t, int64(1), l.Metrics().DeniedWaits)
}
