// Package config handles persistent user configuration for skyglass:
// display preferences plus the list of subscriptions the dashboard can
// show. It is stored as indented JSON (see Path).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

const (
	appDir   = "skyglass"
	fileName = "config.json"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Defaults applied when a key is unset.
const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultProbePort       = 22

	// ProbeDisabled is stored in ProbePort when connection checks are switched off.
	ProbeDisabled = -1
)

// Config holds user preferences that persist across invocations.
type Config struct {
	DefaultSubscription string `json:"default_subscription,omitempty"`

	// RefreshInterval is a Go duration string such as "30s".
	RefreshInterval string `json:"refresh_interval,omitempty"`

	// FallbackOnFetchError is nil when unset, which means enabled.
	FallbackOnFetchError *bool `json:"fallback_on_fetch_error,omitempty"`

	LogFile   string `json:"log_file,omitempty"`
	ProbePort int    `json:"probe_port,omitempty"`

	Subscriptions []domain.Subscription `json:"subscriptions,omitempty"`
}

// Refresh returns the parsed refresh interval, or the default when unset
// or invalid.
func (c *Config) Refresh() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return DefaultRefreshInterval
	}
	return d
}

// Fallback reports whether failed inventory fetches fall back to cached or
// sample data.
func (c *Config) Fallback() bool {
	return c.FallbackOnFetchError == nil || *c.FallbackOnFetchError
}

// Port returns the TCP port used for connection checks, or 0 when they are off.
func (c *Config) Port() int {
	switch {
	case c.ProbePort < 0:
		return 0
	case c.ProbePort == 0:
		return DefaultProbePort
	default:
		return c.ProbePort
	}
}

// EnvPath names the environment variable that relocates the config file.
const EnvPath = "SKYGLASS_CONFIG"

// Path returns the config file location: the SetPath override, then
// $SKYGLASS_CONFIG, then skyglass/config.json under os.UserConfigDir.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config from Path. A missing file yields a zero Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Provider names are canonicalised
// and a default that names no configured subscription is dropped, so a
// hand-edited file cannot select a subscription that does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	for i := range cfg.Subscriptions {
		cfg.Subscriptions[i].Provider = strings.ToLower(strings.TrimSpace(cfg.Subscriptions[i].Provider))
	}
	if cfg.DefaultSubscription != "" {
		if _, ok := cfg.Subscription(cfg.DefaultSubscription); !ok {
			cfg.DefaultSubscription = ""
		}
	}
	return &cfg, nil
}

// Save writes the config to Path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path through a temp file and rename, so a
// concurrent reader never sees a partial file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}
