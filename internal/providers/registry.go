package providers

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/services/auth"
	"nathanbeddoewebdev/skyglass/internal/util"
)

// Factory builds a transport for one subscription.
type Factory func(sub domain.Subscription, store auth.Store) (domain.Transport, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a transport factory under name. It panics on an empty
// name, a nil factory or a duplicate registration.
func Register(name string, factory Factory) {
	key := util.ProviderName(name)
	switch {
	case key == "":
		panic("providers: empty provider name")
	case factory == nil:
		panic("providers: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("providers: provider %q already registered", name))
	}
	registry[key] = factory
}

// Registered reports whether a factory exists for name.
func Registered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[util.ProviderName(name)]
	return ok
}

// Get builds the transport registered for sub.Provider. The error wraps
// domain.ErrNotFound when no such provider is registered.
func Get(sub domain.Subscription, store auth.Store) (domain.Transport, error) {
	mu.RLock()
	factory, ok := registry[util.ProviderName(sub.Provider)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("providers: provider %q: %w", sub.Provider, domain.ErrNotFound)
	}

	t, err := factory(sub, store)
	if err != nil {
		return nil, fmt.Errorf("providers: %s transport for %s: %w", sub.Provider, sub.ID, err)
	}
	return t, nil
}

// Reset clears the provider registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}

// List returns the registered provider names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	return slices.Sorted(maps.Keys(registry))
}

// RegisterDefaults registers every built-in provider.
func RegisterDefaults(hetznerOpts ...HetznerOption) {
	RegisterHetzner(hetznerOpts...)
	RegisterSample()
}
