package alerts

import (
	"context"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Switch picks a Source per subscription by backend name.
type Switch struct {
	backendOf func(subscriptionID string) string
	byBackend map[string]Source
	fallback  Source
}

// NewSwitch returns a Switch that uses fallback for unregistered backends.
func NewSwitch(backendOf func(subscriptionID string) string, fallback Source) *Switch {
	return &Switch{backendOf: backendOf, byBackend: make(map[string]Source), fallback: fallback}
}

// Handle routes subscriptions of the given backend to src.
func (s *Switch) Handle(backend string, src Source) *Switch {
	s.byBackend[backend] = src
	return s
}

func (s *Switch) Alerts(ctx context.Context, subscriptionID string) ([]domain.Alert, error) {
	if src, ok := s.byBackend[s.backendOf(subscriptionID)]; ok {
		return src.Alerts(ctx, subscriptionID)
	}
	return s.fallback.Alerts(ctx, subscriptionID)
}
