package domain

import "time"

// Severity ranks an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Alert is a single entry in the alert feed. Resolved only ever moves from
// false to true.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
	Resource    string    `json:"resource,omitempty"`
	Resolved    bool      `json:"resolved"`
}

// AlertCounts are the derived totals shown next to the alert panel.
type AlertCounts struct {
	Total              int `json:"total"`
	Unresolved         int `json:"unresolved"`
	CriticalUnresolved int `json:"critical_unresolved"`
}
