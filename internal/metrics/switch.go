package metrics

import (
	"context"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Switch picks a Provider per subscription based on its backend name, so
// sample subscriptions get synthetic snapshots while cloud subscriptions
// are aggregated from real samples.
type Switch struct {
	backendOf func(subscriptionID string) string
	byBackend map[string]Provider
	fallback  Provider
}

// NewSwitch returns a Switch that uses fallback for unregistered backends.
func NewSwitch(backendOf func(subscriptionID string) string, fallback Provider) *Switch {
	return &Switch{
		backendOf: backendOf,
		byBackend: make(map[string]Provider),
		fallback:  fallback,
	}
}

// Handle routes subscriptions of the given backend to p.
func (s *Switch) Handle(backend string, p Provider) *Switch {
	s.byBackend[backend] = p
	return s
}

func (s *Switch) Fetch(ctx context.Context, subscriptionID string) (domain.Snapshot, error) {
	if err := requireSelection(subscriptionID); err != nil {
		return domain.Snapshot{}, err
	}
	if p, ok := s.byBackend[s.backendOf(subscriptionID)]; ok {
		return p.Fetch(ctx, subscriptionID)
	}
	return s.fallback.Fetch(ctx, subscriptionID)
}
