// Package retry runs operations with bounded exponential backoff.
//
// The schedule is deterministic: after failed attempt k the executor sleeps
// min(base*factor^(k-1), maxDelay), with no jitter. Only failures accepted by
// the ShouldRetry predicate are repeated; anything else, as well as the failure of
// the last attempt, is returned to the caller as is.
package retry

import (
	"context"
	"math"
	"time"
)

// defaults used when no option overrides them
const (
	DefaultRetries   = 3
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultFactor    = 2.0
	DefaultMaxDelay  = 5 * time.Second
)

// Options define retry behavior
type Options struct {
	Retries     int
	BaseDelay   time.Duration
	Factor      float64
	MaxDelay    time.Duration
	ShouldRetry func(err error) bool
	OnRetry     func(err error, attempt int)
	Sleep       func(ctx context.Context, d time.Duration) error
}

// Option sets one of the retry options
type Option func(o *Options)

// Retries sets the number of re-attempts, the operation runs up to n+1 times
func Retries(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.Retries = n
	}
}

// BaseDelay sets the delay after the first failed attempt
func BaseDelay(d time.Duration) Option {
	return func(o *Options) { o.BaseDelay = d }
}

// Factor sets the backoff multiplier
func Factor(f float64) Option {
	return func(o *Options) {
		if f > 0 {
			o.Factor = f
		}
	}
}

// MaxDelay caps a single delay
func MaxDelay(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.MaxDelay = d
		}
	}
}

// ShouldRetry sets the predicate deciding if a failure is retriable
func ShouldRetry(fn func(err error) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.ShouldRetry = fn
		}
	}
}

// OnRetry sets a callback invoked before each sleep with the failure and attempt number
func OnRetry(fn func(err error, attempt int)) Option {
	return func(o *Options) { o.OnRetry = fn }
}

// Sleeper replaces the sleep function, used by tests to avoid real waits
func Sleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.Sleep = fn
		}
	}
}

func newOptions(opts []Option) Options {
	res := Options{
		Retries:     DefaultRetries,
		BaseDelay:   DefaultBaseDelay,
		Factor:      DefaultFactor,
		MaxDelay:    DefaultMaxDelay,
		ShouldRetry: IsRetriable,
		Sleep:       sleep,
	}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

// Do runs fn until it succeeds, fails with a non-retriable error or runs out of attempts.
// The attempt number passed to fn starts from 1.
func Do(ctx context.Context, fn func(attempt int) error, opts ...Option) error {
	_, err := DoValue(ctx, func(attempt int) (struct{}, error) {
		return struct{}{}, fn(attempt)
	}, opts...)
	return err
}

// DoValue is Do for operations returning a value
func DoValue[T any](ctx context.Context, fn func(attempt int) (T, error), opts ...Option) (T, error) {
	o := newOptions(opts)
	maxAttempts := o.Retries + 1

	var zero T
	for attempt := 1; ; attempt++ {
		res, err := fn(attempt)
		if err == nil {
			return res, nil
		}
		if attempt >= maxAttempts || !o.ShouldRetry(err) {
			return zero, err
		}
		if o.OnRetry != nil {
			o.OnRetry(err, attempt)
		}
		if serr := o.Sleep(ctx, Delay(attempt, o.BaseDelay, o.Factor, o.MaxDelay)); serr != nil {
			return zero, serr
		}
	}
}

// Delay returns the pause after the given failed attempt, min(base*factor^(attempt-1), maxDelay)
func Delay(attempt int, base time.Duration, factor float64, maxDelay time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(base) * math.Pow(factor, float64(attempt-1))
	if math.IsInf(d, 0) || math.IsNaN(d) || d > float64(maxDelay) {
		return maxDelay
	}
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
