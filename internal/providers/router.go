package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/services/auth"

	"github.com/sony/gobreaker"
)

// SubscriptionLookup resolves a subscription ID to its configuration.
type SubscriptionLookup func(id string) (domain.Subscription, bool)

// Router is a Transport that sends each subscription to its own backend.
// Backends are built lazily through the registry and wrapped in Reliable,
// so every subscription gets its own circuit breaker.
type Router struct {
	lookup SubscriptionLookup
	store  auth.Store
	opts   []ReliableOption

	mu         sync.Mutex
	transports map[string]domain.Transport
}

// NewRouter creates a router. opts configure the Reliable wrapper of every
// backend it builds.
func NewRouter(lookup SubscriptionLookup, store auth.Store, opts ...ReliableOption) *Router {
	return &Router{
		lookup:     lookup,
		store:      store,
		opts:       opts,
		transports: make(map[string]domain.Transport),
	}
}

func (r *Router) Name() string { return "router" }

// Provider returns the provider name configured for a subscription, or ""
// when the subscription is unknown.
func (r *Router) Provider(subscriptionID string) string {
	sub, ok := r.lookup(subscriptionID)
	if !ok {
		return ""
	}
	return sub.Provider
}

// For returns the transport for a subscription, building it on first use.
func (r *Router) For(subscriptionID string) (domain.Transport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.transports[subscriptionID]; ok {
		return t, nil
	}

	sub, ok := r.lookup(subscriptionID)
	if !ok {
		return nil, &domain.FetchError{
			Op:           "resolve subscription",
			Subscription: subscriptionID,
			Err:          fmt.Errorf("subscription %q: %w", subscriptionID, domain.ErrNotFound),
		}
	}

	t, err := Get(sub, r.store)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			err = fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, &domain.FetchError{Op: "connect", Subscription: subscriptionID, Err: err}
	}

	t = NewReliable(t, subscriptionID, r.opts...)
	r.transports[subscriptionID] = t
	return t, nil
}

// Forget drops a cached backend, e.g. after its token changed.
func (r *Router) Forget(subscriptionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transports, subscriptionID)
}

func (r *Router) ResourceGroups(ctx context.Context, subscriptionID string) ([]string, error) {
	t, err := r.For(subscriptionID)
	if err != nil {
		return nil, err
	}
	return t.ResourceGroups(ctx, subscriptionID)
}

func (r *Router) Resources(ctx context.Context, subscriptionID string) ([]domain.RawResource, error) {
	t, err := r.For(subscriptionID)
	if err != nil {
		return nil, err
	}
	return t.Resources(ctx, subscriptionID)
}

func (r *Router) Metrics(ctx context.Context, subscriptionID, resourceID string, names []string) ([]domain.MetricSample, error) {
	t, err := r.For(subscriptionID)
	if err != nil {
		return nil, err
	}
	return t.Metrics(ctx, subscriptionID, resourceID, names)
}

// BreakerStates reports the circuit state of every backend built so far,
// keyed by subscription ID.
func (r *Router) BreakerStates() map[string]gobreaker.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make(map[string]gobreaker.State, len(r.transports))
	for id, t := range r.transports {
		if rel, ok := t.(*Reliable); ok {
			states[id] = rel.State()
		}
	}
	return states
}
