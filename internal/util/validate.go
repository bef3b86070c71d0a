package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validIDChars matches alphanumerics, hyphens, underscores, and periods.
var validIDChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// ValidateSubscriptionID checks that a subscription ID is safe to use as a
// keyring account and cache key:
//   - Between 2 and 64 characters
//   - Only alphanumeric characters, hyphens (-), underscores (_), and periods (.)
//   - First character must be alphanumeric
func ValidateSubscriptionID(id string) error {
	if len(id) < 2 {
		return fmt.Errorf("subscription ID must be at least 2 characters, got %d", len(id))
	}
	if len(id) > 64 {
		return fmt.Errorf("subscription ID must be at most 64 characters, got %d", len(id))
	}

	if !validIDChars.MatchString(id) {
		return fmt.Errorf("subscription ID %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, underscores, and periods are allowed)", id)
	}

	if !isAlphanumeric(id[0]) {
		return fmt.Errorf("subscription ID must start with an alphanumeric character, got %q", string(id[0]))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ProviderName canonicalises a provider name for registry lookups and
// for storing in config.
func ProviderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
