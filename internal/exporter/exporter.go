// Package exporter publishes dashboard view-models as Prometheus gauges.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

const namespace = "skyglass"

// Builder produces the view-model for one subscription.
type Builder interface {
	BuildViewModel(ctx context.Context, subscriptionID string) dashboard.ViewModel
}

// Metrics holds the exported collectors.
type Metrics struct {
	Resources    *prometheus.GaugeVec
	Alerts       *prometheus.GaugeVec
	Telemetry    *prometheus.GaugeVec
	Connections  *prometheus.GaugeVec
	Fallback     *prometheus.GaugeVec
	Notices      *prometheus.GaugeVec
	Breaker      *prometheus.GaugeVec
	Refreshes    *prometheus.CounterVec
	BuildSeconds *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. A nil reg uses a private
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		Resources: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources",
			Help:      "Number of resources by health status.",
		}, []string{"subscription", "status"}),

		Alerts: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alerts",
			Help:      "Alert counts (total, unresolved, critical_unresolved).",
		}, []string{"subscription", "kind"}),

		Telemetry: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_value",
			Help:      "Latest metrics snapshot values.",
		}, []string{"subscription", "metric"}),

		Connections: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Connection checks by state.",
		}, []string{"subscription", "state"}),

		Fallback: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_fallback",
			Help:      "1 when the inventory is served from cache or sample data.",
		}, []string{"subscription", "source"}),

		Notices: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notices",
			Help:      "Number of degraded-section notices on the latest refresh.",
		}, []string{"subscription"}),

		Breaker: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"subscription"}),

		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed view-model refreshes.",
		}, []string{"subscription"}),

		BuildSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time taken to build a view-model.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"subscription"}),
	}
}

// Exporter refreshes every subscription on an interval and records the
// results.
type Exporter struct {
	builder       Builder
	subscriptions []string
	metrics       *Metrics
	breakers      func() map[string]gobreaker.State
	now           func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithBreakerStates reports circuit breaker states after every pass.
func WithBreakerStates(fn func() map[string]gobreaker.State) Option {
	return func(e *Exporter) { e.breakers = fn }
}

// New creates an exporter for the given subscriptions.
func New(builder Builder, subscriptions []string, m *Metrics, opts ...Option) *Exporter {
	e := &Exporter{
		builder:       builder,
		subscriptions: subscriptions,
		metrics:       m,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Collect refreshes every subscription once, in parallel.
func (e *Exporter) Collect(ctx context.Context) {
	var g errgroup.Group
	for _, sub := range e.subscriptions {
		g.Go(func() error {
			start := e.now()
			vm := e.builder.BuildViewModel(ctx, sub)
			e.metrics.BuildSeconds.WithLabelValues(sub).Observe(e.now().Sub(start).Seconds())
			e.Record(vm)
			return nil
		})
	}
	_ = g.Wait()

	if e.breakers != nil {
		for sub, state := range e.breakers() {
			e.metrics.Breaker.WithLabelValues(sub).Set(float64(state))
		}
	}
}

// Record writes one view-model to the gauges.
func (e *Exporter) Record(vm dashboard.ViewModel) {
	if vm.Empty() {
		return
	}
	m := e.metrics
	sub := vm.Subscription

	counts := domain.CountByStatus(vm.Resources.Resources)
	for _, st := range []domain.Status{domain.StatusHealthy, domain.StatusWarning, domain.StatusError, domain.StatusUnknown} {
		m.Resources.WithLabelValues(sub, string(st)).Set(float64(counts[st]))
	}

	m.Alerts.WithLabelValues(sub, "total").Set(float64(vm.AlertCounts.Total))
	m.Alerts.WithLabelValues(sub, "unresolved").Set(float64(vm.AlertCounts.Unresolved))
	m.Alerts.WithLabelValues(sub, "critical_unresolved").Set(float64(vm.AlertCounts.CriticalUnresolved))

	m.Telemetry.DeletePartialMatch(prometheus.Labels{"subscription": sub})
	if snap := vm.Metrics; snap != nil && !snap.NoData {
		m.Telemetry.WithLabelValues(sub, "traffic_gb_per_hour").Set(snap.TotalTraffic)
		m.Telemetry.WithLabelValues(sub, "active_connections").Set(float64(snap.ActiveConnections))
		m.Telemetry.WithLabelValues(sub, "error_rate_percent").Set(snap.ErrorRate)
		m.Telemetry.WithLabelValues(sub, "latency_ms").Set(snap.Latency)
	}

	states := map[domain.ConnectionState]int{}
	for _, c := range vm.Connections {
		states[c.State]++
	}
	for _, st := range []domain.ConnectionState{domain.ConnectionHealthy, domain.ConnectionWarning, domain.ConnectionError} {
		m.Connections.WithLabelValues(sub, string(st)).Set(float64(states[st]))
	}

	m.Fallback.DeletePartialMatch(prometheus.Labels{"subscription": sub})
	if vm.Resources.Stale() {
		m.Fallback.WithLabelValues(sub, string(vm.Resources.Source)).Set(1)
	}

	m.Notices.WithLabelValues(sub).Set(float64(len(vm.Notices)))
	m.Refreshes.WithLabelValues(sub).Inc()
}

// Run collects immediately and then on every tick until ctx is done.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("exporter: interval must be positive, got %s", interval)
	}

	e.Collect(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Collect(ctx)
			log.Debug().Int("subscriptions", len(e.subscriptions)).Msg("exporter pass complete")
		}
	}
}

// Serve exposes gatherer on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting metrics server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("exporter: metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
