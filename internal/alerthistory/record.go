package alerthistory

import "time"

// Resolution is a persisted record of an alert being resolved.
type Resolution struct {
	ID           int64     `json:"id"`
	Subscription string    `json:"subscription"`
	AlertID      string    `json:"alert_id"`
	Title        string    `json:"title"`
	Severity     string    `json:"severity"`
	Resource     string    `json:"resource,omitempty"`
	ResolvedAt   time.Time `json:"resolved_at"`
}
