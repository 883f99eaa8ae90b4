// Package retry provides the bounded retry/backoff policy wrapped around
// every remote call. Delays start at the policy base interval and double
// after each failed attempt, with no jitter, so total wait time for a run
// is deterministic.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried operation.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// BaseDelay is the wait after the first failed attempt. Each
	// subsequent wait doubles.
	BaseDelay time.Duration
}

// Default matches the long-standing automation defaults: 3 attempts,
// delays of 2s then 4s.
var Default = Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}

// Permanent marks err as terminal so Do stops immediately instead of
// consuming further attempts. Used for failures that retrying cannot fix
// (resolution misses, rejected mutations).
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op under the policy, returning nil on the first success or the
// last error once attempts are exhausted, the error is Permanent, or ctx is
// done. Errors never escape as panics past this boundary.
func Do(ctx context.Context, policy Policy, op func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	// BackOff implementations are stateful; always build a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.BaseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 24 * time.Hour // effectively never clamp the doubling series
	bo.MaxElapsedTime = 0           // bounded by attempt count, not wall clock

	wrapped := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx)
	return backoff.Retry(op, wrapped)
}
