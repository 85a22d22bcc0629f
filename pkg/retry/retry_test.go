package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noSleep records requested delays without waiting
func noSleep(delays *[]time.Duration) Option {
	return Sleeper(func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	})
}

func TestDelay(t *testing.T) {
	base, maxDelay := 1000*time.Millisecond, 5000*time.Millisecond
	expected := []time.Duration{1000, 2000, 4000, 5000, 5000, 5000}
	for i, want := range expected {
		assert.Equal(t, want*time.Millisecond, Delay(i+1, base, 2, maxDelay), "attempt %d", i+1)
	}

	t.Run("huge attempt number is capped", func(t *testing.T) {
		assert.Equal(t, maxDelay, Delay(5000, base, 2, maxDelay))
	})
	t.Run("factor one is constant", func(t *testing.T) {
		assert.Equal(t, 300*time.Millisecond, Delay(4, 300*time.Millisecond, 1, maxDelay))
	})
}

func TestDo(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		var delays []time.Duration
		err := Do(context.Background(), func(int) error {
			calls++
			return nil
		}, noSleep(&delays))
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, delays)
	})

	t.Run("exhaustion returns the last error", func(t *testing.T) {
		calls := 0
		var delays []time.Duration
		var lastErr error
		err := Do(context.Background(), func(attempt int) error {
			calls++
			lastErr = Mark(fmt.Errorf("attempt %d failed", attempt))
			return lastErr
		}, Retries(2), BaseDelay(time.Second), MaxDelay(5*time.Second), noSleep(&delays))
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Same(t, lastErr, err) // returned unmodified
		assert.Equal(t, "attempt 3 failed", err.Error())
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	})

	t.Run("non-retriable error short-circuits", func(t *testing.T) {
		calls := 0
		var delays []time.Duration
		terminal := errors.New("bad request")
		err := Do(context.Background(), func(int) error {
			calls++
			return terminal
		}, Retries(10), noSleep(&delays))
		require.ErrorIs(t, err, terminal)
		assert.Equal(t, 1, calls)
		assert.Empty(t, delays)
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		calls := 0
		var delays []time.Duration
		res, err := DoValue(context.Background(), func(attempt int) (string, error) {
			calls++
			if attempt < 3 {
				return "", Mark(errors.New("temporary"))
			}
			return "ok", nil
		}, noSleep(&delays))
		require.NoError(t, err)
		assert.Equal(t, "ok", res)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
	})

	t.Run("default budget is four attempts", func(t *testing.T) {
		calls := 0
		var delays []time.Duration
		err := Do(context.Background(), func(int) error {
			calls++
			return Mark(errors.New("temporary"))
		}, noSleep(&delays))
		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.Len(t, delays, 3)
	})

	t.Run("on retry callback sees error and attempt", func(t *testing.T) {
		var attempts []int
		var delays []time.Duration
		_ = Do(context.Background(), func(int) error {
			return Mark(errors.New("temporary"))
		}, Retries(2), noSleep(&delays), OnRetry(func(err error, attempt int) {
			assert.Equal(t, "temporary", err.Error())
			attempts = append(attempts, attempt)
		}))
		assert.Equal(t, []int{1, 2}, attempts)
	})

	t.Run("custom predicate", func(t *testing.T) {
		calls := 0
		var delays []time.Duration
		plain := errors.New("plain")
		err := Do(context.Background(), func(int) error {
			calls++
			return plain
		}, Retries(1), noSleep(&delays), ShouldRetry(func(err error) bool { return errors.Is(err, plain) }))
		require.ErrorIs(t, err, plain)
		assert.Equal(t, 2, calls)
	})

	t.Run("context canceled during sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := Do(ctx, func(int) error {
			calls++
			cancel()
			return Mark(errors.New("temporary"))
		}, BaseDelay(time.Hour))
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("real sleep honors the delay", func(t *testing.T) {
		st := time.Now()
		calls := 0
		err := Do(context.Background(), func(int) error {
			calls++
			return Mark(errors.New("temporary"))
		}, Retries(2), BaseDelay(10*time.Millisecond), MaxDelay(15*time.Millisecond))
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.GreaterOrEqual(t, time.Since(st), 25*time.Millisecond)
	})
}

func TestMarkAndClassify(t *testing.T) {
	base := errors.New("boom")
	marked := Mark(base)
	assert.True(t, IsRetriable(marked))
	assert.ErrorIs(t, marked, base)
	assert.Equal(t, "boom", marked.Error())
	assert.False(t, IsRetriable(base))
	assert.True(t, IsRetriable(fmt.Errorf("wrapped: %w", marked)))
	assert.NoError(t, Mark(nil))

	tbl := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("parse feed: unexpected token"), false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
		{"unreachable", fmt.Errorf("dial: %w", syscall.ENETUNREACH), true},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, true},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
	assert.True(t, IsTransient(marked))
}
