package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/services/auth"
)

// Fixture is an in-memory Transport. It serves the built-in sample data for
// the "sample" provider and doubles as a controllable fake in tests.
type Fixture struct {
	mu      sync.Mutex
	groups  []string
	items   []domain.RawResource
	samples map[string][]domain.MetricSample
	failing map[string]error
	err     error
	delay   time.Duration

	resourceCalls atomic.Int64
	groupCalls    atomic.Int64
	metricCalls   atomic.Int64
}

// NewFixture returns an empty fixture.
func NewFixture() *Fixture {
	return &Fixture{
		samples: make(map[string][]domain.MetricSample),
		failing: make(map[string]error),
	}
}

// NewSampleFixture returns a fixture preloaded with the sample inventory.
// Each resource's status is reported as its raw signal.
func NewSampleFixture() *Fixture {
	f := NewFixture()
	f.groups = domain.SampleResourceGroups()
	for _, r := range domain.SampleResources() {
		f.items = append(f.items, domain.RawResource{
			ID:            r.ID,
			Name:          r.Name,
			Type:          r.Type,
			Location:      r.Location,
			ResourceGroup: r.ResourceGroup,
			Signal:        domain.Signal(r.Status),
		})
	}
	return f
}

// RegisterSample registers the fixture under the "sample" provider name.
func RegisterSample() {
	Register("sample", func(domain.Subscription, auth.Store) (domain.Transport, error) {
		return NewSampleFixture(), nil
	})
}

func (f *Fixture) Name() string { return "sample" }

// SetResources replaces the raw resources returned by Resources.
func (f *Fixture) SetResources(items ...domain.RawResource) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	return f
}

// SetGroups replaces the groups returned by ResourceGroups.
func (f *Fixture) SetGroups(groups ...string) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = groups
	return f
}

// SetSamples sets the samples returned for a resource.
func (f *Fixture) SetSamples(resourceID string, samples ...domain.MetricSample) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples[resourceID] = samples
	return f
}

// FailMetrics makes Metrics fail for one resource only.
func (f *Fixture) FailMetrics(resourceID string, err error) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[resourceID] = err
	return f
}

// FailWith makes every call return err. Pass nil to recover.
func (f *Fixture) FailWith(err error) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// SetDelay makes every call block for d or until ctx is done.
func (f *Fixture) SetDelay(d time.Duration) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

// ResourceCalls returns how many times Resources was invoked.
func (f *Fixture) ResourceCalls() int { return int(f.resourceCalls.Load()) }

// GroupCalls returns how many times ResourceGroups was invoked.
func (f *Fixture) GroupCalls() int { return int(f.groupCalls.Load()) }

// MetricCalls returns how many times Metrics was invoked.
func (f *Fixture) MetricCalls() int { return int(f.metricCalls.Load()) }

func (f *Fixture) wait(ctx context.Context) error {
	f.mu.Lock()
	delay, err := f.delay, f.err
	f.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func (f *Fixture) ResourceGroups(ctx context.Context, subscriptionID string) ([]string, error) {
	f.groupCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.groups...), nil
}

func (f *Fixture) Resources(ctx context.Context, subscriptionID string) ([]domain.RawResource, error) {
	f.resourceCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.RawResource(nil), f.items...), nil
}

func (f *Fixture) Metrics(ctx context.Context, subscriptionID, resourceID string, names []string) ([]domain.MetricSample, error) {
	f.metricCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failing[resourceID]; err != nil {
		return nil, err
	}

	samples, ok := f.samples[resourceID]
	if !ok {
		known := false
		for _, r := range f.items {
			if r.ID == resourceID {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("resource %q: %w", resourceID, domain.ErrNotFound)
		}
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []domain.MetricSample
	for _, s := range samples {
		if wanted[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}
