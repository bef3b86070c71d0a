package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-subscription").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	// Unset keys report their effective default.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save). An
	// empty value resets the key to its default.
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-subscription",
		Description: "Subscription shown when --subscription is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultSubscription },
		Set: func(cfg *Config, v string) error {
			id := strings.TrimSpace(v)
			if id != "" {
				if _, ok := cfg.Subscription(id); !ok {
					return fmt.Errorf("subscription %q: %w (known: %s)", id, domain.ErrNotFound, strings.Join(subscriptionIDs(cfg), ", "))
				}
			}
			cfg.DefaultSubscription = id
			return nil
		},
	},
	{
		Name:        "refresh-interval",
		Description: "How often the dashboard refreshes (e.g. 30s, 2m)",
		Get:         func(cfg *Config) string { return cfg.Refresh().String() },
		Set: func(cfg *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				cfg.RefreshInterval = ""
				return nil
			}
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", v, err)
			}
			if d < time.Second {
				return fmt.Errorf("refresh interval must be at least 1s, got %s", d)
			}
			cfg.RefreshInterval = d.String()
			return nil
		},
	},
	{
		Name:        "fallback-on-fetch-error",
		Description: "Show cached or sample resources when a live fetch fails (true/false)",
		Get:         func(cfg *Config) string { return strconv.FormatBool(cfg.Fallback()) },
		Set: func(cfg *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				cfg.FallbackOnFetchError = nil
				return nil
			}
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid boolean %q", v)
			}
			cfg.FallbackOnFetchError = &b
			return nil
		},
	},
	{
		Name:        "log-file",
		Description: "Path of the log file (defaults to skyglass.log in the cache directory)",
		Get:         func(cfg *Config) string { return cfg.LogFile },
		Set: func(cfg *Config, v string) error {
			cfg.LogFile = strings.TrimSpace(v)
			return nil
		},
	},
	{
		Name:        "probe-port",
		Description: "TCP port dialed by connection checks (off or 0 disables them)",
		Get: func(cfg *Config) string {
			if cfg.Port() == 0 {
				return "off"
			}
			return strconv.Itoa(cfg.Port())
		},
		Set: func(cfg *Config, v string) error {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "":
				cfg.ProbePort = 0
				return nil
			case "off", "0":
				cfg.ProbePort = ProbeDisabled
				return nil
			}
			port, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("invalid port %q", v)
			}
			cfg.ProbePort = port
			return nil
		},
	},
}

func subscriptionIDs(cfg *Config) []string {
	subs := cfg.AllSubscriptions()
	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return ids
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
