// Package retry runs transport calls with jittered exponential backoff.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Predicate determines whether an error should be retried.
type Predicate func(error) bool

// Config controls retry behavior.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultConfig returns the retry configuration used by cloud providers.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Do executes fn with retries using the provided config.
func Do(ctx context.Context, config Config, shouldRetry Predicate, fn func() error) error {
	_, err := Value(ctx, config, shouldRetry, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Value is Do for functions that produce a result. The result of the last
// attempt is returned together with its error.
func Value[T any](ctx context.Context, config Config, shouldRetry Predicate, fn func() (T, error)) (T, error) {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}

	var (
		v   T
		err error
	)
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return v, ctx.Err()
		}

		v, err = fn()
		if err == nil {
			return v, nil
		}
		if attempt == config.MaxAttempts || !shouldRetry(err) {
			return v, err
		}

		delay := backoffDelay(config.BaseDelay, config.MaxDelay, attempt)
		if delay <= 0 {
			continue
		}
		if !sleep(ctx, delay) {
			return v, ctx.Err()
		}
	}

	return v, err
}

// IsRetryable determines whether an error is likely transient.
//
// Rate limiting and transient fetch errors are retried. An open circuit
// (domain.ErrUnavailable) is not: the breaker already decided to back off.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, domain.ErrUnauthorized) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrRateLimited) {
		return true
	}

	var fe *domain.FetchError
	if errors.As(err, &fe) && fe.Transient {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base << (attempt - 1)
	if max > 0 && delay > max {
		delay = max
	}

	jitterMax := int64(delay)
	if jitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(jitterMax + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
