package status

import (
	"math/rand/v2"
	"testing"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

func TestResolve_AbsentSignalIsUnknown(t *testing.T) {
	resolvers := map[string]Resolver{
		"provisioning": ProvisioningResolver{},
		"weighted":     NewWeightedResolver(rand.New(rand.NewPCG(1, 2)), DefaultWeights),
		"sequence":     NewSequence(domain.StatusHealthy),
		"fallback":     WithFallback(ProvisioningResolver{}, NewSequence(domain.StatusError)),
		"func": ResolverFunc(func(domain.Signal) domain.Status {
			return domain.StatusError
		}),
	}

	for name, r := range resolvers {
		for range 20 {
			if got := r.Resolve(""); got != domain.StatusUnknown {
				t.Fatalf("%s: Resolve(absent) = %q, want unknown", name, got)
			}
		}
	}
}

func TestProvisioningResolver(t *testing.T) {
	tests := []struct {
		signal domain.Signal
		want   domain.Status
	}{
		{"running", domain.StatusHealthy},
		{"Available", domain.StatusHealthy},
		{"starting", domain.StatusWarning},
		{"migrating", domain.StatusWarning},
		{"off", domain.StatusError},
		{" deleting ", domain.StatusError},
		{"something-new", domain.StatusUnknown},
	}

	r := ProvisioningResolver{}
	for _, tt := range tests {
		if got := r.Resolve(tt.signal); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.signal, got, tt.want)
		}
	}
}

func TestProvisioningResolver_Deterministic(t *testing.T) {
	r := ProvisioningResolver{}
	for range 10 {
		if r.Resolve("running") != domain.StatusHealthy {
			t.Fatal("expected stable result for identical input")
		}
	}
}

func TestWeightedResolver_Bias(t *testing.T) {
	r := NewWeightedResolver(rand.New(rand.NewPCG(42, 7)), DefaultWeights)

	counts := map[domain.Status]int{}
	const draws = 10000
	for range draws {
		counts[r.Resolve("synthetic")]++
	}

	if counts[domain.StatusUnknown] != 0 {
		t.Errorf("weighted resolver produced unknown for a present signal")
	}
	// Expect roughly 60/20/20.
	healthy := float64(counts[domain.StatusHealthy]) / draws
	if healthy < 0.55 || healthy > 0.65 {
		t.Errorf("healthy share = %.3f, want ~0.60", healthy)
	}
	warning := float64(counts[domain.StatusWarning]) / draws
	if warning < 0.15 || warning > 0.25 {
		t.Errorf("warning share = %.3f, want ~0.20", warning)
	}
}

func TestWeightedResolver_ZeroWeightsUseDefault(t *testing.T) {
	r := NewWeightedResolver(nil, Weights{})
	if r.weights != DefaultWeights {
		t.Errorf("weights = %+v, want %+v", r.weights, DefaultWeights)
	}
}

func TestSequence_Wraps(t *testing.T) {
	s := NewSequence(domain.StatusWarning, domain.StatusError)
	got := []domain.Status{s.Resolve("x"), s.Resolve("x"), s.Resolve("x")}
	want := []domain.Status{domain.StatusWarning, domain.StatusError, domain.StatusWarning}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFallback_UsesSecondaryOnlyForUnrecognisedSignals(t *testing.T) {
	r := WithFallback(ProvisioningResolver{}, NewSequence(domain.StatusWarning))

	tests := map[domain.Signal]domain.Status{
		"running":   domain.StatusHealthy,
		"off":       domain.StatusError,
		"unplugged": domain.StatusWarning,
		"":          domain.StatusUnknown,
	}
	for signal, want := range tests {
		if got := r.Resolve(signal); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", signal, got, want)
		}
	}
}
