package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/retry"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Reliable decorates a Transport with retries and a circuit breaker.
// Every failure it returns is a *domain.FetchError; an open breaker is
// reported as domain.ErrUnavailable.
type Reliable struct {
	next    domain.Transport
	breaker *gobreaker.CircuitBreaker
	retry   retry.Config
}

// ReliableOption configures a Reliable transport.
type ReliableOption func(*reliableSettings)

type reliableSettings struct {
	retry       retry.Config
	maxFailures uint32
	openFor     time.Duration
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg retry.Config) ReliableOption {
	return func(s *reliableSettings) { s.retry = cfg }
}

// WithBreaker sets how many consecutive failures open the breaker and how
// long it stays open before letting a probe request through.
func WithBreaker(maxFailures uint32, openFor time.Duration) ReliableOption {
	return func(s *reliableSettings) {
		s.maxFailures = maxFailures
		s.openFor = openFor
	}
}

// NewReliable wraps next. The breaker is named after the subscription so
// state changes can be traced in logs.
func NewReliable(next domain.Transport, name string, opts ...ReliableOption) *Reliable {
	s := reliableSettings{
		retry:       retry.DefaultConfig(),
		maxFailures: 5,
		openFor:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name() + ":" + name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.maxFailures
		},
		// Missing entities, bad credentials and cancellations say nothing
		// about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrNotFound) ||
				errors.Is(err, domain.ErrUnauthorized) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &Reliable{next: next, breaker: cb, retry: s.retry}
}

func (r *Reliable) Name() string { return r.next.Name() }

// State exposes the breaker state for diagnostics.
func (r *Reliable) State() gobreaker.State { return r.breaker.State() }

func (r *Reliable) ResourceGroups(ctx context.Context, subscriptionID string) ([]string, error) {
	return guarded(ctx, r, "list resource groups", subscriptionID, func() ([]string, error) {
		return r.next.ResourceGroups(ctx, subscriptionID)
	})
}

func (r *Reliable) Resources(ctx context.Context, subscriptionID string) ([]domain.RawResource, error) {
	return guarded(ctx, r, "list resources", subscriptionID, func() ([]domain.RawResource, error) {
		return r.next.Resources(ctx, subscriptionID)
	})
}

func (r *Reliable) Metrics(ctx context.Context, subscriptionID, resourceID string, names []string) ([]domain.MetricSample, error) {
	return guarded(ctx, r, "get metrics", subscriptionID, func() ([]domain.MetricSample, error) {
		return r.next.Metrics(ctx, subscriptionID, resourceID, names)
	})
}

// guarded runs fn through the breaker, retrying transient failures.
func guarded[T any](ctx context.Context, r *Reliable, op, subscriptionID string, fn func() (T, error)) (T, error) {
	attempt := 0
	v, err := retry.Value(ctx, r.retry, retry.IsRetryable, func() (T, error) {
		attempt++
		res, err := r.breaker.Execute(func() (interface{}, error) {
			return fn()
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				var zero T
				return zero, &domain.FetchError{
					Op:           op,
					Subscription: subscriptionID,
					Transient:    true,
					Err:          fmt.Errorf("%w: %v", domain.ErrUnavailable, err),
				}
			}
			var zero T
			return zero, asFetchError(op, subscriptionID, err)
		}
		return res.(T), nil
	})
	if err != nil && attempt > 1 {
		log.Debug().Err(err).Str("op", op).Int("attempts", attempt).Msg("transport call failed after retries")
	}
	return v, err
}

func asFetchError(op, subscriptionID string, err error) error {
	if domain.IsFetchError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &domain.FetchError{Op: op, Subscription: subscriptionID, Transient: retry.IsRetryable(err), Err: err}
}
