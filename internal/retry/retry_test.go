package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func recordingSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDelay(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, Delay(0))
	assert.Equal(t, 400*time.Millisecond, Delay(1))
	assert.Equal(t, 800*time.Millisecond, Delay(2))
	assert.Equal(t, 3200*time.Millisecond, Delay(4))
	assert.Equal(t, 5*time.Second, Delay(5))
	assert.Equal(t, 5*time.Second, Delay(60))
	assert.Equal(t, 200*time.Millisecond, Delay(-3))
}

func TestDo_SucceedsFirstTime(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), Policy{MaxRetries: 3}, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	var delays []time.Duration
	calls := 0
	p := Policy{MaxRetries: 3, sleep: recordingSleep(&delays)}

	got, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, delays)
}

func TestDo_ZeroRetriesRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	var delays []time.Duration
	calls := 0
	p := Policy{MaxRetries: 2, sleep: recordingSleep(&delays)}

	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestDo_NonRetryableStops(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	p := Policy{
		MaxRetries: 5,
		Retryable:  func(err error) bool { return !errors.Is(err, permanent) },
	}

	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, Policy{MaxRetries: 3}, func(context.Context) (int, error) {
		return 0, errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
}
