package domain

// Status is the derived health category of a resource.
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusUnknown Status = "unknown"
)

// Valid reports whether s is one of the four known categories.
func (s Status) Valid() bool {
	switch s {
	case StatusHealthy, StatusWarning, StatusError, StatusUnknown:
		return true
	}
	return false
}

// Signal is a raw health indicator as reported by the cloud API, e.g. a
// server's provisioning state ("running", "off") or a volume state
// ("available"). The empty Signal means no indicator was reported.
type Signal string

// Absent reports whether no health indicator is available.
func (s Signal) Absent() bool { return s == "" }
