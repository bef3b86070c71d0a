// Package metrics produces point-in-time traffic snapshots for a
// subscription. Every Fetch recomputes from scratch; nothing is cached
// between calls.
package metrics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Provider returns a fresh snapshot for a subscription. Callers must not
// invoke it without a selection; an empty subscription ID yields
// domain.ErrInvalidSelection.
type Provider interface {
	Fetch(ctx context.Context, subscriptionID string) (domain.Snapshot, error)
}

func requireSelection(subscriptionID string) error {
	if subscriptionID == "" {
		return fmt.Errorf("metrics: %w", domain.ErrInvalidSelection)
	}
	return nil
}

// --- Sample provider ---

// SampleProvider generates synthetic snapshots. Randomness comes from an
// injectable source so tests can pin the output.
type SampleProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSampleProvider returns a synthetic provider. A nil rng is seeded
// randomly.
func NewSampleProvider(rng *rand.Rand) *SampleProvider {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SampleProvider{rng: rng, now: time.Now}
}

// sampleTraffic is the fixed 24h chart shown in sample mode.
var sampleTraffic = []domain.TrafficPoint{
	{Label: "00:00", Inbound: 120, Outbound: 80, Errors: 2},
	{Label: "04:00", Inbound: 98, Outbound: 65, Errors: 1},
	{Label: "08:00", Inbound: 245, Outbound: 180, Errors: 3},
	{Label: "12:00", Inbound: 320, Outbound: 250, Errors: 5},
	{Label: "16:00", Inbound: 280, Outbound: 210, Errors: 2},
	{Label: "20:00", Inbound: 190, Outbound: 140, Errors: 1},
}

func (p *SampleProvider) Fetch(ctx context.Context, subscriptionID string) (domain.Snapshot, error) {
	if err := requireSelection(subscriptionID); err != nil {
		return domain.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	traffic := make([]domain.TrafficPoint, len(sampleTraffic))
	copy(traffic, sampleTraffic)

	return domain.Snapshot{
		Subscription:      subscriptionID,
		FetchedAt:         now,
		TotalTraffic:      float64(p.rng.IntN(1000) + 500),
		ActiveConnections: p.rng.IntN(50) + 25,
		ErrorRate:         p.rng.Float64() * 5,
		Latency:           float64(p.rng.IntN(100) + 50),

		TrafficTrend:     domain.Trend{Direction: domain.TrendPositive, Change: 12},
		ConnectionsTrend: domain.Trend{Direction: domain.TrendPositive, Change: 5},
		ErrorRateTrend:   domain.Trend{Direction: domain.TrendNegative, Change: -2},
		LatencyTrend:     domain.Trend{Direction: domain.TrendNeutral, Change: 8},

		Traffic: traffic,
		Samples: []domain.MetricSample{
			{Name: "CPU Percentage", Value: p.rng.Float64() * 100, Unit: "Percent", Timestamp: now},
			{Name: "Memory Percentage", Value: p.rng.Float64() * 100, Unit: "Percent", Timestamp: now},
			{Name: "Network In", Value: p.rng.Float64() * 1000, Unit: "Bytes", Timestamp: now},
		},
	}, nil
}
