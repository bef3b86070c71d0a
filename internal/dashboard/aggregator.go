package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/connections"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"
	"nathanbeddoewebdev/skyglass/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// InventoryLister is the inventory half the aggregator needs.
type InventoryLister interface {
	List(ctx context.Context, subscriptionID string) (inventory.Inventory, error)
}

// ResolutionLog persists alert resolutions across runs.
type ResolutionLog interface {
	ResolvedIDs(subscriptionID string) ([]string, error)
	Record(subscriptionID string, alert domain.Alert) error
}

// Aggregator builds view-models. Sections without a provider stay empty.
type Aggregator struct {
	metrics     metrics.Provider
	inventory   InventoryLister
	connections connections.Checker
	alerts      alerts.Source
	history     ResolutionLog
	now         func() time.Time

	mu    sync.Mutex
	feeds map[string]*alerts.Feed
}

// Option configures an Aggregator.
type Option func(*Aggregator)

func WithMetrics(p metrics.Provider) Option        { return func(a *Aggregator) { a.metrics = p } }
func WithInventory(p InventoryLister) Option       { return func(a *Aggregator) { a.inventory = p } }
func WithConnections(c connections.Checker) Option { return func(a *Aggregator) { a.connections = c } }
func WithAlertSource(s alerts.Source) Option       { return func(a *Aggregator) { a.alerts = s } }
func WithResolutionLog(l ResolutionLog) Option     { return func(a *Aggregator) { a.history = l } }
func WithClock(now func() time.Time) Option        { return func(a *Aggregator) { a.now = now } }

// NewAggregator returns an aggregator wired with opts.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:   time.Now,
		feeds: make(map[string]*alerts.Feed),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Feed returns the alert feed for a subscription, creating it on first
// use. Resolutions recorded in the resolution log are applied up front.
func (a *Aggregator) Feed(subscriptionID string) *alerts.Feed {
	a.mu.Lock()
	defer a.mu.Unlock()

	if f, ok := a.feeds[subscriptionID]; ok {
		return f
	}

	var opts []alerts.FeedOption
	if a.history != nil {
		ids, err := a.history.ResolvedIDs(subscriptionID)
		if err != nil {
			log.Warn().Err(err).Str("subscription", subscriptionID).Msg("failed to load alert history")
		}
		opts = append(opts,
			alerts.Preresolved(ids...),
			alerts.OnResolve(func(alert domain.Alert) {
				if err := a.history.Record(subscriptionID, alert); err != nil {
					log.Warn().Err(err).Str("alert", alert.ID).Msg("failed to record alert resolution")
				}
			}),
		)
	}

	f := alerts.NewFeed(nil, opts...)
	a.feeds[subscriptionID] = f
	return f
}

// Resolve marks an alert resolved in the subscription's feed.
func (a *Aggregator) Resolve(subscriptionID, alertID string) error {
	if subscriptionID == "" {
		return fmt.Errorf("resolve alert: %w", domain.ErrInvalidSelection)
	}
	return a.Feed(subscriptionID).Resolve(alertID)
}

// BuildViewModel fetches every section for a subscription in parallel.
//
// An empty subscriptionID yields the neutral view-model without calling
// any provider. A failing section is left empty and explained by a
// notice; it never fails the whole view-model. No retries happen here.
func (a *Aggregator) BuildViewModel(ctx context.Context, subscriptionID string) ViewModel {
	if subscriptionID == "" {
		return ViewModel{GeneratedAt: a.now()}
	}

	var (
		snap      domain.Snapshot
		inv       inventory.Inventory
		checks    []domain.ConnectionCheck
		batch     []domain.Alert
		metricErr error
		invErr    error
		connErr   error
		alertErr  error
	)

	var g errgroup.Group
	if a.metrics != nil {
		g.Go(func() error {
			snap, metricErr = a.metrics.Fetch(ctx, subscriptionID)
			return nil
		})
	}
	if a.inventory != nil {
		g.Go(func() error {
			inv, invErr = a.inventory.List(ctx, subscriptionID)
			return nil
		})
	}
	if a.connections != nil {
		g.Go(func() error {
			checks, connErr = a.connections.Check(ctx, subscriptionID)
			return nil
		})
	}
	if a.alerts != nil {
		g.Go(func() error {
			batch, alertErr = a.alerts.Alerts(ctx, subscriptionID)
			return nil
		})
	}
	_ = g.Wait()

	vm := ViewModel{Subscription: subscriptionID, GeneratedAt: a.now()}

	if a.metrics != nil {
		if metricErr != nil {
			vm.Notices = append(vm.Notices, notice("Metrics", metricErr))
		} else {
			vm.Metrics = &snap
			if snap.NoData {
				vm.Notices = append(vm.Notices, "Metrics: no data reported for this subscription")
			}
		}
	}

	if a.inventory != nil {
		if invErr != nil {
			vm.Notices = append(vm.Notices, notice("Resources", invErr))
		} else {
			vm.Resources = inv
			if inv.Notice != "" {
				vm.Notices = append(vm.Notices, "Resources: "+inv.Notice)
			}
		}
	}

	if a.connections != nil {
		if connErr != nil {
			vm.Notices = append(vm.Notices, notice("Connections", connErr))
		} else {
			vm.Connections = checks
		}
	}

	feed := a.Feed(subscriptionID)
	if a.alerts != nil {
		if alertErr != nil {
			vm.Notices = append(vm.Notices, notice("Alerts", alertErr))
		} else {
			feed.Ingest(batch)
		}
	}
	if vm.Metrics != nil {
		feed.Ingest(alerts.FromSnapshot(*vm.Metrics))
	}
	vm.Alerts = feed.List(alerts.FilterAll)
	vm.AlertCounts = feed.Counts()

	return vm
}

func notice(section string, err error) string {
	log.Warn().Err(err).Str("section", section).Msg("dashboard section degraded")
	return fmt.Sprintf("%s unavailable: %s", section, domain.Cause(err))
}
