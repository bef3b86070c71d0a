package domain

import (
	"regexp"
	"strings"
)

// Resource is a point-in-time description of a cloud resource. Values are
// never mutated after an inventory fetch; a refresh replaces the whole set.
type Resource struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Location      string `json:"location"`
	ResourceGroup string `json:"resource_group"`
	Status        Status `json:"status"`

	// Endpoint is a host:port the connection checker can dial. Empty when
	// the resource has no reachable address.
	Endpoint string `json:"endpoint,omitempty"`
}

// RawResource is what a Transport returns before status derivation.
type RawResource struct {
	ID            string
	Name          string
	Type          string
	Location      string
	ResourceGroup string
	Endpoint      string
	Signal        Signal
}

var resourceGroupPattern = regexp.MustCompile(`/resourceGroups/([^/]+)`)

// ResourceGroupFromID extracts the owning group from a hierarchical
// resource ID such as "/subscriptions/x/resourceGroups/prod-rg/providers/...".
// It returns "Unknown" when the ID carries no group segment.
func ResourceGroupFromID(id string) string {
	m := resourceGroupPattern.FindStringSubmatch(id)
	if m == nil {
		return "Unknown"
	}
	return m[1]
}

// ShortType returns the last path segment of a type tag
// ("Microsoft.Cache/Redis" -> "Redis").
func ShortType(t string) string {
	if i := strings.LastIndex(t, "/"); i >= 0 {
		return t[i+1:]
	}
	return t
}

// Category buckets a resource type for display.
type Category string

const (
	CategoryDatabase  Category = "database"
	CategoryNetwork   Category = "network"
	CategoryStorage   Category = "storage"
	CategoryMessaging Category = "messaging"
	CategorySecurity  Category = "security"
	CategoryGeneric   Category = "generic"
)

// CategoryOf classifies a type tag by keyword. The first matching keyword
// wins.
func CategoryOf(t string) Category {
	switch {
	case strings.Contains(t, "Sql"), strings.Contains(t, "Database"), strings.Contains(t, "database"):
		return CategoryDatabase
	case strings.Contains(t, "Network"), strings.Contains(t, "Gateway"), strings.Contains(t, "gateway"):
		return CategoryNetwork
	case strings.Contains(t, "Storage"), strings.Contains(t, "volume"):
		return CategoryStorage
	case strings.Contains(t, "ServiceBus"):
		return CategoryMessaging
	case strings.Contains(t, "Security"):
		return CategorySecurity
	default:
		return CategoryGeneric
	}
}

// CountByStatus tallies resources per status.
func CountByStatus(resources []Resource) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range resources {
		counts[r.Status]++
	}
	return counts
}
