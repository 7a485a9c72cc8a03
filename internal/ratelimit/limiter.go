// Package ratelimit throttles outbound requests against the exchange's
// request-weight budget.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a weighted request budget per period. Exchange
// endpoints carry different weights, so consumers reserve tokens per
// request weight rather than per call.
type Limiter struct {
	limiter *rate.Limiter
	metrics *Metrics
}

// Metrics tracks limiter usage.
type Metrics struct {
	totalWaits   atomic.Int64
	deniedWaits  atomic.Int64
	weightSpent  atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the limiter metrics.
type MetricsSnapshot struct {
	TotalWaits  int64
	DeniedWaits int64
	WeightSpent int64
}

// New creates a Limiter allowing the given total weight per period,
// with a burst equal to the full budget.
func New(weight int, period time.Duration) *Limiter {
	perSecond := float64(weight) / period.Seconds()
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), weight),
		metrics: &Metrics{},
	}
}

// Wait blocks until one unit of weight is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitN(ctx, 1)
}

// WaitN blocks until n units of weight are available or ctx is done.
func (l *Limiter) WaitN(ctx context.Context, n int) error {
	if n <= 0 {
		n = 1
	}
	l.metrics.totalWaits.Add(1)
	if err := l.limiter.WaitN(ctx, n); err != nil {
		l.metrics.deniedWaits.Add(1)
		return err
	}
	l.metrics.weightSpent.Add(int64(n))
	return nil
}

// Metrics returns a snapshot of limiter usage.
func (l *Limiter) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalWaits:  l.metrics.totalWaits.Load(),
		DeniedWaits: l.metrics.deniedWaits.Load(),
		WeightSpent: l.metrics.weightSpent.Load(),
	}
}
