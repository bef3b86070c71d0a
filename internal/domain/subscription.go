package domain

// Subscription is a billing/credential scope whose resources are shown
// together. For Hetzner this is a project; its API token is the credential.
type Subscription struct {
	ID          string `json:"id"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name,omitempty"`
}

// Label returns the display name, falling back to the ID.
func (s Subscription) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.ID
}
