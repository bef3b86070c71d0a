// Package inventory lists a subscription's resources with derived health
// status, falling back to cached or sample data when the live fetch fails.
package inventory

import (
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Source records where an inventory came from.
type Source string

const (
	SourceLive   Source = "live"
	SourceCached Source = "cached"
	SourceSample Source = "sample"
)

// Inventory is a whole-set result of one List call. It is never updated in
// place; a refresh produces a new value.
type Inventory struct {
	Subscription string            `json:"subscription"`
	Resources    []domain.Resource `json:"resources"`
	Source       Source            `json:"source"`

	// Notice explains a non-live result. Empty for live data.
	Notice string `json:"notice,omitempty"`

	// AsOf is when the data was fetched from the cloud. For sample data
	// it is the time the fallback was served.
	AsOf time.Time `json:"as_of"`
}

// Synthetic reports whether the resources are built-in sample data.
func (inv Inventory) Synthetic() bool { return inv.Source == SourceSample }

// Stale reports whether the resources did not come from this fetch.
func (inv Inventory) Stale() bool { return inv.Source != SourceLive }

// Healthy returns the number of healthy resources.
func (inv Inventory) Healthy() int {
	return domain.CountByStatus(inv.Resources)[domain.StatusHealthy]
}

// GroupList is the result of a Groups call.
type GroupList struct {
	Names  []string `json:"names"`
	Source Source   `json:"source"`
	Notice string   `json:"notice,omitempty"`
}
