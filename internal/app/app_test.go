package app

import (
	"context"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/cache"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/providers"
	"nathanbeddoewebdev/skyglass/internal/services/auth"
)

func newTestApp(t *testing.T, cfg *config.Config, historyPath string) *App {
	t.Helper()
	providers.Reset()
	providers.RegisterDefaults()
	t.Cleanup(providers.Reset)

	a, err := New(cfg,
		WithStore(auth.NewMockStore()),
		WithCache(cache.New(t.TempDir())),
		WithHistoryPath(historyPath),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_SampleSubscription(t *testing.T) {
	a := newTestApp(t, &config.Config{}, filepath.Join(t.TempDir(), "history.db"))

	vm := a.Aggregator.BuildViewModel(context.Background(), "Production-Subscription-001")
	if vm.Metrics == nil {
		t.Fatal("expected a metrics snapshot")
	}
	if len(vm.Resources.Resources) != 3 {
		t.Errorf("resources = %d, want 3", len(vm.Resources.Resources))
	}
	if len(vm.Alerts) != 4 {
		t.Errorf("alerts = %d, want 4", len(vm.Alerts))
	}
	if len(vm.Connections) != 5 {
		t.Errorf("connections = %d, want 5", len(vm.Connections))
	}
	if len(vm.Notices) != 0 {
		t.Errorf("unexpected notices: %v", vm.Notices)
	}
}

func TestApp_ResolutionsSurviveRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	sub := "Production-Subscription-001"
	ctx := context.Background()

	first := newTestApp(t, &config.Config{}, path)
	first.Aggregator.BuildViewModel(ctx, sub)
	if err := first.Aggregator.Resolve(sub, "1"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := newTestApp(t, &config.Config{}, path)
	vm := second.Aggregator.BuildViewModel(ctx, sub)
	for _, a := range vm.VisibleAlerts(alerts.FilterUnresolved) {
		if a.ID == "1" {
			t.Fatal("alert 1 should stay resolved after a restart")
		}
	}
}

func TestApp_MissingTokenDegrades(t *testing.T) {
	cfg := &config.Config{}
	if err := cfg.AddSubscription(domain.Subscription{ID: "proj", Provider: "hetzner"}); err != nil {
		t.Fatalf("AddSubscription: %v", err)
	}
	a := newTestApp(t, cfg, filepath.Join(t.TempDir(), "history.db"))

	vm := a.Aggregator.BuildViewModel(context.Background(), "proj")
	if !vm.Resources.Synthetic() {
		t.Errorf("expected sample fallback inventory, got source %q", vm.Resources.Source)
	}
	if len(vm.Notices) == 0 {
		t.Error("expected notices explaining the degraded sections")
	}
	if len(vm.Connections) != 0 {
		t.Errorf("fallback inventory should not be probed, got %d checks", len(vm.Connections))
	}
}

func TestApp_SubscriptionIDs(t *testing.T) {
	a := newTestApp(t, &config.Config{}, filepath.Join(t.TempDir(), "history.db"))
	ids := a.SubscriptionIDs()
	if len(ids) != 3 || ids[0] != "Production-Subscription-001" {
		t.Errorf("unexpected ids: %v", ids)
	}
}

func TestDefaultSubscription(t *testing.T) {
	tests := map[string]struct {
		cfg  *config.Config
		want string
	}{
		"samples are ambiguous": {cfg: &config.Config{}, want: ""},
		"configured default": {
			cfg:  &config.Config{DefaultSubscription: "Testing-Subscription-003"},
			want: "Testing-Subscription-003",
		},
		"stale default": {
			cfg:  &config.Config{DefaultSubscription: "gone"},
			want: "",
		},
		"single subscription": {
			cfg: &config.Config{Subscriptions: []domain.Subscription{
				{ID: "proj", Provider: "hetzner"},
			}},
			want: "proj",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := DefaultSubscription(tt.cfg); got != tt.want {
				t.Errorf("DefaultSubscription = %q, want %q", got, tt.want)
			}
		})
	}
}
