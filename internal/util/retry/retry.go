package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

type settings struct {
	maxRetries int
	backoff    Backoff
	onRetry    func(attempt int, err error)
}

// Option configures Do.
type Option func(*settings)

// Backoff computes the wait before each retry: Initial grows by Multiplier
// per attempt up to Max, then Jitter spreads it by up to that fraction.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// Delay returns the wait before retry number attempt (starting at 1).
func (b Backoff) Delay(attempt int) time.Duration {
	d := float64(b.Initial)
	for i := 1; i < attempt && d < float64(b.Max); i++ {
		d *= b.Multiplier
	}
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d += d * b.Jitter * (2*rand.Float64() - 1) // #nosec G404
	}
	return time.Duration(d)
}

// Do runs operation until it succeeds, returns a Fatal error, the retry budget
// is spent or ctx is done.
func Do(ctx context.Context, operation func(context.Context) error, opts ...Option) error {
	s := settings{
		maxRetries: 3,
		backoff: Backoff{
			Initial:    time.Second,
			Max:        10 * time.Second,
			Multiplier: 2,
		},
	}
	for _, opt := range opts {
		opt(&s)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = operation(ctx)
		switch {
		case lastErr == nil:
			return nil
		case IsFatal(lastErr):
			return fmt.Errorf("fatal error (not retrying): %w", lastErr)
		case attempt == s.maxRetries:
			return fmt.Errorf("operation failed after %d attempts: %w", attempt+1, lastErr)
		}

		if s.onRetry != nil {
			s.onRetry(attempt+1, lastErr)
		}

		timer := time.NewTimer(s.backoff.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
		case <-timer.C:
		}
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(s *settings) { s.backoff.Initial = d }
}

// WithMaxDelay caps the wait between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(s *settings) { s.backoff.Max = d }
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) Option {
	return func(s *settings) { s.backoff.Multiplier = m }
}

// WithJitter randomizes each wait by up to fraction of its value.
func WithJitter(fraction float64) Option {
	return func(s *settings) { s.backoff.Jitter = fraction }
}

// WithOnRetry registers a callback for failed attempts that will be retried.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(s *settings) { s.onRetry = fn }
}

// FatalError marks an error as not worth retrying.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err so Do returns it without retrying. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
