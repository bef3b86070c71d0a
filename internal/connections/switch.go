package connections

import (
	"context"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Switch picks a Checker per subscription by backend name.
type Switch struct {
	backendOf func(subscriptionID string) string
	byBackend map[string]Checker
	fallback  Checker
}

// NewSwitch returns a Switch that uses fallback for unregistered backends.
func NewSwitch(backendOf func(subscriptionID string) string, fallback Checker) *Switch {
	return &Switch{backendOf: backendOf, byBackend: make(map[string]Checker), fallback: fallback}
}

// Handle routes subscriptions of the given backend to c.
func (s *Switch) Handle(backend string, c Checker) *Switch {
	s.byBackend[backend] = c
	return s
}

func (s *Switch) Check(ctx context.Context, subscriptionID string) ([]domain.ConnectionCheck, error) {
	if c, ok := s.byBackend[s.backendOf(subscriptionID)]; ok {
		return c.Check(ctx, subscriptionID)
	}
	return s.fallback.Check(ctx, subscriptionID)
}
