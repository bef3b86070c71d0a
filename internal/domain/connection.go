package domain

import "time"

// ConnectionState is the outcome of a connectivity probe. It extends the
// resource statuses with "checking" for probes that have not finished.
type ConnectionState string

const (
	ConnectionHealthy  ConnectionState = "healthy"
	ConnectionWarning  ConnectionState = "warning"
	ConnectionError    ConnectionState = "error"
	ConnectionChecking ConnectionState = "checking"
)

// ConnectionCheck is one row of the connection status panel.
type ConnectionCheck struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	State       ConnectionState `json:"state"`
	Latency     time.Duration   `json:"latency,omitempty"`
	LastChecked time.Time       `json:"last_checked,omitempty"`
}
