// Package status derives a resource's health category from the raw signal
// reported by the cloud API.
//
// Two resolvers are provided. ProvisioningResolver is deterministic and maps
// provider lifecycle states onto the four categories. WeightedResolver
// draws a status at random, biased towards healthy; Fallback chains it
// behind ProvisioningResolver for signals the lifecycle table does not
// recognise. Every resolver maps an absent signal to unknown.
package status

import (
	"math/rand/v2"
	"strings"
	"sync"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Resolver maps a raw health signal to a status. Implementations must
// return domain.StatusUnknown for an absent signal.
type Resolver interface {
	Resolve(signal domain.Signal) domain.Status
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(domain.Signal) domain.Status

func (f ResolverFunc) Resolve(signal domain.Signal) domain.Status {
	if signal.Absent() {
		return domain.StatusUnknown
	}
	return f(signal)
}

// --- Provisioning state ---

// provisioningStates covers Hetzner server and volume states plus the
// generic provisioning states used by resource-manager style APIs.
var provisioningStates = map[string]domain.Status{
	"running":   domain.StatusHealthy,
	"available": domain.StatusHealthy,
	"succeeded": domain.StatusHealthy,
	"healthy":   domain.StatusHealthy,

	"initializing": domain.StatusWarning,
	"starting":     domain.StatusWarning,
	"stopping":     domain.StatusWarning,
	"rebuilding":   domain.StatusWarning,
	"migrating":    domain.StatusWarning,
	"creating":     domain.StatusWarning,
	"updating":     domain.StatusWarning,
	"warning":      domain.StatusWarning,

	"off":      domain.StatusError,
	"stopped":  domain.StatusError,
	"deleting": domain.StatusError,
	"failed":   domain.StatusError,
	"error":    domain.StatusError,
}

// ProvisioningResolver maps lifecycle states case-insensitively.
// Unrecognised states resolve to unknown.
type ProvisioningResolver struct{}

func (ProvisioningResolver) Resolve(signal domain.Signal) domain.Status {
	if signal.Absent() {
		return domain.StatusUnknown
	}
	if s, ok := provisioningStates[strings.ToLower(strings.TrimSpace(string(signal)))]; ok {
		return s
	}
	return domain.StatusUnknown
}

// --- Chaining ---

// Fallback consults Primary and, when it cannot classify a present
// signal, Secondary.
type Fallback struct {
	Primary, Secondary Resolver
}

// WithFallback returns a resolver that tries primary, then secondary.
func WithFallback(primary, secondary Resolver) Fallback {
	return Fallback{Primary: primary, Secondary: secondary}
}

func (f Fallback) Resolve(signal domain.Signal) domain.Status {
	if signal.Absent() {
		return domain.StatusUnknown
	}
	if s := f.Primary.Resolve(signal); s != domain.StatusUnknown {
		return s
	}
	return f.Secondary.Resolve(signal)
}

// --- Weighted random fallback ---

// DefaultWeights is the 3:1:1 healthy:warning:error bias.
var DefaultWeights = Weights{Healthy: 3, Warning: 1, Error: 1}

// Weights are relative draw weights.
type Weights struct {
	Healthy, Warning, Error uint
}

func (w Weights) total() uint { return w.Healthy + w.Warning + w.Error }

// WeightedResolver ignores the content of a present signal and draws a
// status at random. It is safe for concurrent use.
type WeightedResolver struct {
	mu      sync.Mutex
	rng     *rand.Rand
	weights Weights
}

// NewWeightedResolver returns a resolver drawing from rng with the given
// weights. A nil rng uses a randomly seeded source; zero weights fall back
// to DefaultWeights.
func NewWeightedResolver(rng *rand.Rand, weights Weights) *WeightedResolver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if weights.total() == 0 {
		weights = DefaultWeights
	}
	return &WeightedResolver{rng: rng, weights: weights}
}

func (r *WeightedResolver) Resolve(signal domain.Signal) domain.Status {
	if signal.Absent() {
		return domain.StatusUnknown
	}

	r.mu.Lock()
	n := r.rng.UintN(r.weights.total())
	r.mu.Unlock()

	switch {
	case n < r.weights.Healthy:
		return domain.StatusHealthy
	case n < r.weights.Healthy+r.weights.Warning:
		return domain.StatusWarning
	default:
		return domain.StatusError
	}
}

// Sequence replays a fixed list of statuses in order, wrapping around.
// Intended for tests that need a predictable fallback policy.
type Sequence struct {
	mu       sync.Mutex
	statuses []domain.Status
	next     int
}

// NewSequence returns a resolver that yields statuses in order.
func NewSequence(statuses ...domain.Status) *Sequence {
	return &Sequence{statuses: statuses}
}

func (s *Sequence) Resolve(signal domain.Signal) domain.Status {
	if signal.Absent() || len(s.statuses) == 0 {
		return domain.StatusUnknown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statuses[s.next%len(s.statuses)]
	s.next++
	return st
}
