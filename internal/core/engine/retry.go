package engine

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"

	apperrors "github.com/translay/translay/internal/errors"
	"github.com/translay/translay/internal/metrics"
)

// RetryPolicy bounds the retry-with-backoff wrapper. Immutable per call.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Jitter is the fraction of the computed delay added as random noise.
	Jitter float64

	// IsRetryable overrides the default classification when set.
	IsRetryable func(error) bool

	Clock clock.Clock
	Rand  *rand.Rand
}

// ExecuteWithRetry runs attempt up to policy.MaxAttempts times. A failure
// classified non-retryable, or exhausted attempts, propagate the last error
// immediately; otherwise the executor sleeps an exponentially growing delay
// (with jitter) and retries. Retries run sequentially, never in parallel.
func ExecuteWithRetry[T any](ctx context.Context, policy RetryPolicy, attempt func(context.Context) (T, error)) (T, error) {
	var zero T

	if ctx == nil {
		ctx = context.Background()
	}

	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		result, err := attempt(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == maxAttempts || !policy.retryable(err) {
			break
		}

		metrics.RecordRetry()
		if err := sleepWithContext(ctx, policy.clock(), policy.backoff(i)); err != nil {
			break
		}
	}

	return zero, lastErr
}

func (p RetryPolicy) retryable(err error) bool {
	if p.IsRetryable != nil {
		return p.IsRetryable(err)
	}
	return apperrors.Retryable(err)
}

// backoff computes min(MaxDelay, BaseDelay × 2^(attempt-1)) plus jitter.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 250 * time.Millisecond
	}

	delay := float64(base) * math.Pow(2, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		delay += delay * p.Jitter * p.randFloat()
	}

	return time.Duration(delay)
}

func (p RetryPolicy) clock() clock.Clock {
	if p.Clock != nil {
		return p.Clock
	}
	return clock.New()
}

func (p RetryPolicy) randFloat() float64 {
	if p.Rand != nil {
		return p.Rand.Float64()
	}
	return rand.Float64()
}

func sleepWithContext(ctx context.Context, clk clock.Clock, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := clk.Timer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
