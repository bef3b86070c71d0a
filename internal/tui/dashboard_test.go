package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"

	tea "github.com/charmbracelet/bubbletea"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	mu       sync.Mutex
	builds   []string
	resolved []string
}

func (f *fakeBackend) BuildViewModel(_ context.Context, sub string) dashboard.ViewModel {
	f.mu.Lock()
	f.builds = append(f.builds, sub)
	f.mu.Unlock()

	all := domain.SampleAlerts(testNow)
	return dashboard.ViewModel{
		Subscription: sub,
		Metrics: &domain.Snapshot{
			Subscription:      sub,
			TotalTraffic:      1.2,
			ActiveConnections: 40,
			ErrorRate:         1.5,
			Latency:           90,
			TrafficTrend:      domain.Trend{Direction: domain.TrendPositive, Change: 12},
			Traffic: []domain.TrafficPoint{
				{Label: "00:00", Inbound: 1, Outbound: 2},
				{Label: "04:00", Inbound: 3, Outbound: 1},
			},
		},
		Resources: inventory.Inventory{
			Subscription: sub,
			Resources:    domain.SampleResources(),
			Source:       inventory.SourceLive,
		},
		Alerts:      all,
		AlertCounts: alerts.Count(all),
		Connections: domain.SampleConnections(testNow),
		GeneratedAt: testNow,
	}
}

func (f *fakeBackend) Resolve(_, alertID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, alertID)
	return nil
}

func newTestDashboard(t *testing.T, subs ...string) (dashboardModel, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	var list []domain.Subscription
	for _, id := range subs {
		list = append(list, domain.Subscription{ID: id, Provider: "sample"})
	}
	m := newDashboardModel(context.Background(), DashboardOptions{
		Backend:       backend,
		Subscriptions: list,
		Interval:      time.Minute,
	})
	return m, backend
}

// update feeds msg through Update and asserts the model type.
func update(t *testing.T, m dashboardModel, msg tea.Msg) (dashboardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	dm, ok := next.(dashboardModel)
	if !ok {
		t.Fatalf("Update returned %T, want dashboardModel", next)
	}
	return dm, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashboard_NoSelectionFetchesNothing(t *testing.T) {
	m, backend := newTestDashboard(t, "a")

	m, cmd := update(t, m, key("r"))
	if cmd != nil {
		t.Error("refresh without a selection should not issue a command")
	}
	if len(backend.builds) != 0 {
		t.Errorf("builds = %v, want none", backend.builds)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(m.View(), "No subscription selected") {
		t.Error("expected placeholder for empty selection")
	}
}

func TestDashboard_LatestSelectionWins(t *testing.T) {
	m, _ := newTestDashboard(t, "a", "b")

	// Select a and start its fetch, but hold the result back.
	m, _ = update(t, m, key("s"))
	if got := m.session.Selection(); got != "a" {
		t.Fatalf("selection = %q, want a", got)
	}
	slowA := m.session.Begin(context.Background())

	// Switch to b, whose fetch completes first.
	m, cmdB := update(t, m, key("s"))
	if got := m.session.Selection(); got != "b" {
		t.Fatalf("selection = %q, want b", got)
	}
	if slowA.Ctx.Err() == nil {
		t.Error("switching subscription should cancel the earlier request")
	}

	m, _ = update(t, m, cmdB())
	if m.vm.Subscription != "b" {
		t.Fatalf("view shows %q, want b", m.vm.Subscription)
	}

	// a's late result arrives and must be dropped.
	late := (&fakeBackend{}).BuildViewModel(context.Background(), "a")
	m, cmd := update(t, m, viewModelMsg{ticket: slowA, vm: late})
	if cmd != nil {
		t.Error("a discarded result should not schedule anything")
	}
	if m.vm.Subscription != "b" {
		t.Errorf("view shows %q after late result, want b", m.vm.Subscription)
	}
}

func TestDashboard_FilterAndResolve(t *testing.T) {
	m, backend := newTestDashboard(t, "a")
	m, cmd := update(t, m, key("s"))
	m, _ = update(t, m, cmd())

	if got := len(m.vm.VisibleAlerts(m.filter)); got != 3 {
		t.Fatalf("visible unresolved alerts = %d, want 3", got)
	}

	m, _ = update(t, m, key("f"))
	if m.filter != alerts.FilterAll {
		t.Fatalf("filter = %v, want all", m.filter)
	}
	if got := len(m.vm.VisibleAlerts(m.filter)); got != 4 {
		t.Fatalf("visible alerts = %d, want 4", got)
	}
	m, _ = update(t, m, key("f"))

	// Move to the critical alert and resolve it.
	visible := m.vm.VisibleAlerts(m.filter)
	for i, a := range visible {
		if a.Severity == domain.SeverityCritical {
			m.cursors[panelAlerts] = i
		}
	}
	m, cmd = update(t, m, key("x"))
	if cmd == nil {
		t.Fatal("expected a resolve command")
	}
	m, _ = update(t, m, cmd())

	if len(backend.resolved) != 1 {
		t.Fatalf("resolved = %v, want one call", backend.resolved)
	}
	want := domain.AlertCounts{Total: 4, Unresolved: 2, CriticalUnresolved: 0}
	if m.vm.AlertCounts != want {
		t.Errorf("counts = %+v, want %+v", m.vm.AlertCounts, want)
	}
	if m.cursors[panelAlerts] > 1 {
		t.Errorf("cursor %d out of range after resolve", m.cursors[panelAlerts])
	}
}

func TestDashboard_StaleTickIgnored(t *testing.T) {
	m, backend := newTestDashboard(t, "a")
	m, cmd := update(t, m, key("s"))
	m, _ = update(t, m, cmd())
	builds := len(backend.builds)

	m, cmd = update(t, m, refreshTickMsg{gen: m.poller.gen - 1})
	if cmd != nil {
		t.Error("stale tick should not refresh")
	}

	_, cmd = update(t, m, refreshTickMsg{gen: m.poller.gen})
	if cmd == nil {
		t.Fatal("live tick should refresh")
	}
	cmd()
	if len(backend.builds) != builds+1 {
		t.Errorf("builds = %d, want %d", len(backend.builds), builds+1)
	}
}

func TestDashboard_CycleWraps(t *testing.T) {
	m, _ := newTestDashboard(t, "a", "b", "c")

	m, _ = update(t, m, key("["))
	if got := m.session.Selection(); got != "c" {
		t.Fatalf("[ with no selection = %q, want c", got)
	}
	m, _ = update(t, m, key("]"))
	if got := m.session.Selection(); got != "a" {
		t.Errorf("] from last = %q, want a", got)
	}
}

func TestDashboard_ViewRendersSections(t *testing.T) {
	m, _ := newTestDashboard(t, "a")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	m, cmd := update(t, m, key("s"))
	m, _ = update(t, m, cmd())

	view := m.View()
	for _, want := range []string{"Total Traffic", "Latency", "Traffic (24h)", "Connections", "Alerts", "Resources", "Production Database"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMetricHistory_Capped(t *testing.T) {
	var h metricHistory
	for i := 0; i < historyLen+5; i++ {
		h = h.push(&domain.Snapshot{Latency: float64(i)})
	}
	if len(h.latency) != historyLen {
		t.Fatalf("history length = %d, want %d", len(h.latency), historyLen)
	}
	if h.latency[0] != 5 {
		t.Errorf("oldest kept value = %v, want 5", h.latency[0])
	}

	h = h.push(&domain.Snapshot{NoData: true})
	if len(h.latency) != historyLen {
		t.Error("NoData snapshots should not be recorded")
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := relativeTime(testNow, testNow.Add(-tt.ago)); got != tt.want {
			t.Errorf("relativeTime(-%s) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
