// Package retry re-attempts an operation while its failure is
// classified as transient. Backoff timing lives here; the retryability
// verdict belongs to the caller's classifier.
package retry

import (
	"context"
	"time"
)

// Policy bounds the attempts and backoff of one retried operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int `json:"max_attempts"`
	// WaitMin is the backoff before the first re-attempt.
	WaitMin time.Duration `json:"wait_min"`
	// WaitMax caps the exponentially growing backoff.
	WaitMax time.Duration `json:"wait_max"`
}

// DefaultPolicy mirrors the adapter's default config: 5 attempts,
// 100ms initial backoff doubling up to 15s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		WaitMin:     100 * time.Millisecond,
		WaitMax:     15 * time.Second,
	}
}

// Do invokes fn until it succeeds, returns a non-retryable error, or
// the policy is exhausted. retryable decides whether a failure may be
// re-attempted; a nil retryable never retries. Context cancellation
// aborts both in-flight calls (via fn's ctx) and backoff sleeps.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error, retryable func(error) bool) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	wait := policy.WaitMin
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			wait *= 2
			if policy.WaitMax > 0 && wait > policy.WaitMax {
				wait = policy.WaitMax
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if retryable == nil || !retryable(err) {
			return err
		}
	}

	return err
}
