// Package connections probes resource endpoints for the connection status
// panel.
package connections

import (
	"context"
	"fmt"
	"net"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Checker returns the connection panel rows for a subscription.
type Checker interface {
	Check(ctx context.Context, subscriptionID string) ([]domain.ConnectionCheck, error)
}

const (
	// SlowThreshold separates healthy from warning probe latencies.
	SlowThreshold = 100 * time.Millisecond

	defaultTimeout     = 2 * time.Second
	defaultConcurrency = 8
)

// DialFunc opens a connection; net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Lister is the part of the inventory provider the prober needs.
type Lister interface {
	List(ctx context.Context, subscriptionID string) (inventory.Inventory, error)
}

// Prober dials every resource endpoint over TCP. Resources without an
// endpoint are skipped, and fallback inventories are not probed since
// their endpoints are not current.
type Prober struct {
	inventory   Lister
	dial        DialFunc
	timeout     time.Duration
	concurrency int
	now         func() time.Time
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithDialer replaces the TCP dialer.
func WithDialer(d DialFunc) ProberOption {
	return func(p *Prober) { p.dial = d }
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) ProberOption {
	return func(p *Prober) { p.timeout = d }
}

// WithConcurrency bounds parallel probes.
func WithConcurrency(n int) ProberOption {
	return func(p *Prober) { p.concurrency = n }
}

// NewProber returns a Prober that reads endpoints from inv.
func NewProber(inv Lister, opts ...ProberOption) *Prober {
	var d net.Dialer
	p := &Prober{
		inventory:   inv,
		dial:        d.DialContext,
		timeout:     defaultTimeout,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prober) Check(ctx context.Context, subscriptionID string) ([]domain.ConnectionCheck, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("connections: %w", domain.ErrInvalidSelection)
	}

	inv, err := p.inventory.List(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if inv.Stale() {
		return nil, nil
	}

	var targets []domain.Resource
	for _, r := range inv.Resources {
		if r.Endpoint != "" {
			targets = append(targets, r)
		}
	}

	checks := make([]domain.ConnectionCheck, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, r := range targets {
		g.Go(func() error {
			checks[i] = p.probe(gctx, r)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return checks, nil
}

func (p *Prober) probe(ctx context.Context, r domain.Resource) domain.ConnectionCheck {
	check := domain.ConnectionCheck{
		ID:   r.ID,
		Name: r.Name,
		Type: domain.ShortType(r.Type),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dial(ctx, "tcp", r.Endpoint)
	elapsed := time.Since(start)
	check.LastChecked = p.now()

	if err != nil {
		log.Debug().Err(err).Str("endpoint", r.Endpoint).Msg("connection probe failed")
		check.State = domain.ConnectionError
		return check
	}
	_ = conn.Close()

	check.Latency = elapsed
	check.State = StateFor(elapsed)
	return check
}

// StateFor classifies a successful probe by its latency.
func StateFor(latency time.Duration) domain.ConnectionState {
	if latency < SlowThreshold {
		return domain.ConnectionHealthy
	}
	return domain.ConnectionWarning
}

// SampleChecker returns the built-in demo connection rows.
type SampleChecker struct {
	now func() time.Time
}

// NewSampleChecker returns a SampleChecker.
func NewSampleChecker() *SampleChecker {
	return &SampleChecker{now: time.Now}
}

func (s *SampleChecker) Check(ctx context.Context, subscriptionID string) ([]domain.ConnectionCheck, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("connections: %w", domain.ErrInvalidSelection)
	}
	return domain.SampleConnections(s.now()), ctx.Err()
}

// Healthy counts rows in the healthy state.
func Healthy(checks []domain.ConnectionCheck) int {
	n := 0
	for _, c := range checks {
		if c.State == domain.ConnectionHealthy {
			n++
		}
	}
	return n
}
