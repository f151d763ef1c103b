// Package retry runs external calls with bounded exponential backoff.
package retry

import (
	"context"
	"time"
)

// Backoff limits.
const (
	BaseDelay = 200 * time.Millisecond
	MaxDelay  = 5 * time.Second
)

// Policy decides how often a failed call is retried.
type Policy struct {
	// MaxRetries is the number of extra attempts after the first call.
	// Zero means the call runs exactly once.
	MaxRetries int

	// Retryable reports whether err is worth retrying. Nil retries every error.
	Retryable func(err error) bool

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Delay returns the wait before retry number attempt (0-based):
// 200ms doubling per attempt, capped at 5s.
func Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return MaxDelay
	}
	d := BaseDelay << attempt
	if d > MaxDelay {
		d = MaxDelay
	}
	return d
}

// Do calls fn until it succeeds, the error is not retryable, the retries are
// used up, or ctx is done. It returns the last error from fn, or the
// context error if the context ended while waiting.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var (
		result T
		err    error
	)
	for attempt := 0; ; attempt++ {
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= p.MaxRetries || (p.Retryable != nil && !p.Retryable(err)) {
			return result, err
		}
		if serr := sleep(ctx, Delay(attempt)); serr != nil {
			return result, serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
