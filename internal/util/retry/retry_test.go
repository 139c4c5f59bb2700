package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	var retried []int

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	},
		WithInitialDelay(time.Millisecond),
		WithOnRetry(func(attempt int, _ error) { retried = append(retried, attempt) }),
	)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("persistent error")
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Contains(t, err.Error(), "persistent error")
}

func TestDo_ZeroRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("boom")
	}, WithMaxRetries(0))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	t.Parallel()
	attempts := 0
	sentinel := errors.New("bad input")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Fatal(sentinel)
	}, WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, sentinel)
	assert.True(t, IsFatal(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(context.Context) error {
		return errors.New("temporary")
	}, WithInitialDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_DelayIsCapped(t *testing.T) {
	t.Parallel()
	start := time.Now()
	_ = Do(context.Background(), func(context.Context) error {
		return errors.New("again")
	},
		WithMaxRetries(3),
		WithInitialDelay(5*time.Millisecond),
		WithMultiplier(100),
		WithMaxDelay(10*time.Millisecond),
	)

	assert.Less(t, time.Since(start), time.Second)
}

func TestFatal_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(errors.New("plain")))
}

func TestBackoff_Delay(t *testing.T) {
	t.Parallel()
	b := Backoff{Initial: 100 * time.Millisecond, Max: time.Second, Multiplier: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{50, time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestBackoff_Jitter(t *testing.T) {
	t.Parallel()
	b := Backoff{Initial: time.Second, Max: time.Second, Multiplier: 2, Jitter: 0.2}
	for range 100 {
		d := b.Delay(1)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}
