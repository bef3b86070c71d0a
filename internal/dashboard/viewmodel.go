// Package dashboard composes the metrics, inventory, alert and connection
// providers into the view-model rendered by the TUI, the CLI and the
// exporter.
package dashboard

import (
	"time"

	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/connections"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"
)

// ViewModel is everything the dashboard shows for one subscription. A nil
// Metrics means the metrics section could not be produced.
type ViewModel struct {
	Subscription string                   `json:"subscription"`
	Metrics      *domain.Snapshot         `json:"metrics,omitempty"`
	Resources    inventory.Inventory      `json:"resources"`
	Alerts       []domain.Alert           `json:"alerts"`
	AlertCounts  domain.AlertCounts       `json:"alert_counts"`
	Connections  []domain.ConnectionCheck `json:"connections"`
	Notices      []string                 `json:"notices,omitempty"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// Empty reports whether vm is the neutral view-model for "no selection".
func (vm ViewModel) Empty() bool { return vm.Subscription == "" }

// VisibleAlerts applies filter to the alert list.
func (vm ViewModel) VisibleAlerts(filter alerts.Filter) []domain.Alert {
	return alerts.Apply(vm.Alerts, filter)
}

// HealthyResources returns the healthy count and total of the inventory.
func (vm ViewModel) HealthyResources() (healthy, total int) {
	return vm.Resources.Healthy(), len(vm.Resources.Resources)
}

// HealthyConnections returns the healthy count and total of the probes.
func (vm ViewModel) HealthyConnections() (healthy, total int) {
	return connections.Healthy(vm.Connections), len(vm.Connections)
}
