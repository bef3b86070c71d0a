package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"

	"github.com/google/go-cmp/cmp"
)

type stubLister struct {
	inv inventory.Inventory
	err error
}

func (s stubLister) List(context.Context, string) (inventory.Inventory, error) {
	return s.inv, s.err
}

func TestFromResources(t *testing.T) {
	resources := []domain.Resource{
		{ID: "servers/1", Name: "web", Type: "hetzner/server", Status: domain.StatusHealthy},
		{ID: "servers/2", Name: "db", Type: "hetzner/server", Status: domain.StatusError},
		{ID: "volumes/3", Name: "data", Type: "hetzner/volume", Status: domain.StatusWarning},
		{ID: "volumes/4", Name: "tmp", Type: "hetzner/volume", Status: domain.StatusUnknown},
	}

	got := FromResources(resources, testNow)
	if diff := cmp.Diff([]string{"status-error:servers/2", "status-warning:volumes/3"}, ids(got)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if got[0].Severity != domain.SeverityCritical || got[1].Severity != domain.SeverityWarning {
		t.Errorf("unexpected severities: %q, %q", got[0].Severity, got[1].Severity)
	}
	if got[0].Resource != "db" {
		t.Errorf("Resource = %q, want db", got[0].Resource)
	}
}

func TestFromSnapshot_HighCPU(t *testing.T) {
	snap := domain.Snapshot{Samples: []domain.MetricSample{
		{Name: domain.MetricCPU, Value: 95, Timestamp: testNow.Add(-time.Minute), Resource: "web"},
		{Name: domain.MetricCPU, Value: 40, Timestamp: testNow, Resource: "web"},
		{Name: domain.MetricCPU, Value: 91, Timestamp: testNow, Resource: "db"},
		{Name: domain.MetricNetworkIn, Value: 1000, Timestamp: testNow, Resource: "db"},
	}}

	got := FromSnapshot(snap)
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(got), got)
	}
	want := domain.Alert{
		ID:          "cpu-high:db",
		Title:       "High CPU Usage",
		Description: "CPU usage is at 91%, above the 85% threshold",
		Severity:    domain.SeverityWarning,
		Timestamp:   testNow,
		Resource:    "db",
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("alert mismatch (-want +got):\n%s", diff)
	}
}

func TestDerivedSource_IgnoresFallbackData(t *testing.T) {
	src := NewDerivedSource(stubLister{inv: inventory.Inventory{
		Resources: domain.SampleResources(),
		Source:    inventory.SourceSample,
	}})

	got, err := src.Alerts(context.Background(), "sub")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no alerts from sample data, got %d", len(got))
	}
}

func TestDerivedSource_LiveData(t *testing.T) {
	src := NewDerivedSource(stubLister{inv: inventory.Inventory{
		Resources: domain.SampleResources(),
		Source:    inventory.SourceLive,
	}})
	src.now = func() time.Time { return testNow }

	got, err := src.Alerts(context.Background(), "sub")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].Resource != "Production Cache" {
		t.Errorf("expected one warning for Production Cache, got %+v", got)
	}
}

func TestDerivedSource_PropagatesError(t *testing.T) {
	src := NewDerivedSource(stubLister{err: domain.ErrUnavailable})
	if _, err := src.Alerts(context.Background(), "sub"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSampleSource(t *testing.T) {
	src := NewSampleSource()
	src.now = func() time.Time { return testNow }

	got, err := src.Alerts(context.Background(), "sub")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff(domain.SampleAlerts(testNow), got); diff != "" {
		t.Errorf("alerts mismatch (-want +got):\n%s", diff)
	}
	if _, err := src.Alerts(context.Background(), ""); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}
