package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsImmediatelyOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesAfterRateLimit(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Do(context.Background(), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewRateLimitError(-time.Second)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// negative RetryAfter plus the extra second collapses to no real delay
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDoRetriesWrappedRateLimit(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("unrelated: " + NewRateLimitError(0).Error())
		}
		return nil
	})

	// a string mention is not a RateLimitError, it must not retry
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoAbortsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, zerolog.Nop(), func(ctx context.Context) error {
		return NewRateLimitError(time.Minute)
	})

	require.ErrorIs(t, err, context.Canceled)
}
