package alerts

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"
)

// Source produces the current batch of alerts for a subscription.
type Source interface {
	Alerts(ctx context.Context, subscriptionID string) ([]domain.Alert, error)
}

// SampleSource returns the built-in demo alerts.
type SampleSource struct {
	now func() time.Time
}

// NewSampleSource returns a SampleSource.
func NewSampleSource() *SampleSource {
	return &SampleSource{now: time.Now}
}

func (s *SampleSource) Alerts(ctx context.Context, subscriptionID string) ([]domain.Alert, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("alerts: %w", domain.ErrInvalidSelection)
	}
	return domain.SampleAlerts(s.now()), ctx.Err()
}

// Lister is the part of the inventory provider a DerivedSource needs.
type Lister interface {
	List(ctx context.Context, subscriptionID string) (inventory.Inventory, error)
}

// DerivedSource raises alerts from resource health. A resource in error
// raises a critical alert and one in warning raises a warning. Alerts are
// only derived from live inventory, never from fallback data.
type DerivedSource struct {
	inventory Lister
	now       func() time.Time
}

// NewDerivedSource returns a source reading resources from inv.
func NewDerivedSource(inv Lister) *DerivedSource {
	return &DerivedSource{inventory: inv, now: time.Now}
}

func (s *DerivedSource) Alerts(ctx context.Context, subscriptionID string) ([]domain.Alert, error) {
	inv, err := s.inventory.List(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if inv.Stale() {
		return nil, nil
	}
	return FromResources(inv.Resources, s.now()), nil
}

// FromResources derives status alerts. IDs are stable per resource and
// status so repeated refreshes update rather than duplicate.
func FromResources(resources []domain.Resource, now time.Time) []domain.Alert {
	var out []domain.Alert
	for _, r := range resources {
		switch r.Status {
		case domain.StatusError:
			out = append(out, domain.Alert{
				ID:          "status-error:" + r.ID,
				Title:       "Resource Unhealthy",
				Description: fmt.Sprintf("%s (%s) is reporting an error state", r.Name, domain.ShortType(r.Type)),
				Severity:    domain.SeverityCritical,
				Timestamp:   now,
				Resource:    r.Name,
			})
		case domain.StatusWarning:
			out = append(out, domain.Alert{
				ID:          "status-warning:" + r.ID,
				Title:       "Resource Degraded",
				Description: fmt.Sprintf("%s (%s) is in a transitional or degraded state", r.Name, domain.ShortType(r.Type)),
				Severity:    domain.SeverityWarning,
				Timestamp:   now,
				Resource:    r.Name,
			})
		}
	}
	return out
}

// HighCPUThreshold is the CPU percentage above which FromSnapshot raises
// an alert.
const HighCPUThreshold = 85.0

// FromSnapshot raises a "High CPU Usage" warning for every resource whose
// most recent CPU sample exceeds HighCPUThreshold.
func FromSnapshot(snap domain.Snapshot) []domain.Alert {
	latest := make(map[string]domain.MetricSample)
	var order []string
	for _, s := range snap.Samples {
		if s.Name != domain.MetricCPU {
			continue
		}
		prev, ok := latest[s.Resource]
		if !ok {
			order = append(order, s.Resource)
		}
		if !ok || !s.Timestamp.Before(prev.Timestamp) {
			latest[s.Resource] = s
		}
	}

	var out []domain.Alert
	for _, res := range order {
		s := latest[res]
		if s.Value <= HighCPUThreshold {
			continue
		}
		out = append(out, domain.Alert{
			ID:          "cpu-high:" + res,
			Title:       "High CPU Usage",
			Description: fmt.Sprintf("CPU usage is at %.0f%%, above the %.0f%% threshold", s.Value, HighCPUThreshold),
			Severity:    domain.SeverityWarning,
			Timestamp:   s.Timestamp,
			Resource:    res,
		})
	}
	return out
}
