// Package app wires the providers, the aggregator and the resolution
// history together for the CLI commands and the dashboard.
package app

import (
	"fmt"

	"nathanbeddoewebdev/skyglass/internal/alerthistory"
	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/cache"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/connections"
	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/inventory"
	"nathanbeddoewebdev/skyglass/internal/metrics"
	"nathanbeddoewebdev/skyglass/internal/providers"
	"nathanbeddoewebdev/skyglass/internal/services/auth"
	"nathanbeddoewebdev/skyglass/internal/status"
)

// App holds the long-lived collaborators of one skyglass process.
type App struct {
	Config     *config.Config
	Router     *providers.Router
	Inventory  *inventory.Provider
	Aggregator *dashboard.Aggregator
	History    alerthistory.Repository
}

type settings struct {
	store       auth.Store
	cache       inventory.Store
	history     alerthistory.Repository
	historyPath string
	reliable    []providers.ReliableOption
}

// Option configures New.
type Option func(*settings)

// WithStore overrides the credential store (the OS keyring by default).
func WithStore(s auth.Store) Option {
	return func(st *settings) { st.store = s }
}

// WithCache overrides the last-known-good inventory store.
func WithCache(c inventory.Store) Option {
	return func(st *settings) { st.cache = c }
}

// WithHistory uses an already opened resolution history.
func WithHistory(r alerthistory.Repository) Option {
	return func(st *settings) { st.history = r }
}

// WithHistoryPath opens the resolution history at path instead of the
// default location.
func WithHistoryPath(path string) Option {
	return func(st *settings) { st.historyPath = path }
}

// WithReliable configures the retry and breaker wrapper of every backend.
func WithReliable(opts ...providers.ReliableOption) Option {
	return func(st *settings) { st.reliable = opts }
}

// New builds an App from cfg. Providers must already be registered.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	st := &settings{}
	for _, opt := range opts {
		opt(st)
	}
	if st.store == nil {
		st.store = auth.DefaultStore()
	}
	if st.cache == nil {
		st.cache = cache.NewDefault()
	}

	history := st.history
	if history == nil {
		var err error
		if st.historyPath != "" {
			history, err = alerthistory.OpenAt(st.historyPath)
		} else {
			history, err = alerthistory.Open()
		}
		if err != nil {
			return nil, fmt.Errorf("opening alert history: %w", err)
		}
	}

	router := providers.NewRouter(cfg.Subscription, st.store, st.reliable...)
	inv := inventory.NewProvider(router,
		inventory.WithResolver(status.WithFallback(status.ProvisioningResolver{}, status.NewWeightedResolver(nil, status.DefaultWeights))),
		inventory.WithStore(st.cache),
		inventory.FallbackOnFetchError(cfg.Fallback()),
	)

	agg := dashboard.NewAggregator(
		dashboard.WithInventory(inv),
		dashboard.WithMetrics(metrics.NewSwitch(router.Provider, metrics.NewSampleProvider(nil)).
			Handle("hetzner", metrics.NewCloudProvider(router))),
		dashboard.WithConnections(connections.NewSwitch(router.Provider, connections.NewSampleChecker()).
			Handle("hetzner", connections.NewProber(inv))),
		dashboard.WithAlertSource(alerts.NewSwitch(router.Provider, alerts.NewSampleSource()).
			Handle("hetzner", alerts.NewDerivedSource(inv))),
		dashboard.WithResolutionLog(history),
	)

	return &App{
		Config:     cfg,
		Router:     router,
		Inventory:  inv,
		Aggregator: agg,
		History:    history,
	}, nil
}

// Load reads the config file and builds an App from it.
func Load(opts ...Option) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg, opts...)
}

// DefaultSubscription picks the subscription to use when none was given:
// the configured default if it still exists, else the only visible
// subscription. It returns "" when the choice is ambiguous.
func DefaultSubscription(cfg *config.Config) string {
	if cfg.DefaultSubscription != "" {
		if _, ok := cfg.Subscription(cfg.DefaultSubscription); ok {
			return cfg.DefaultSubscription
		}
	}
	if subs := cfg.AllSubscriptions(); len(subs) == 1 {
		return subs[0].ID
	}
	return ""
}

// SubscriptionIDs returns the IDs of every visible subscription.
func (a *App) SubscriptionIDs() []string {
	subs := a.Config.AllSubscriptions()
	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return ids
}

// Close releases the resolution history.
func (a *App) Close() error {
	return a.History.Close()
}
