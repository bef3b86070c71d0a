package config

import (
	"errors"
	"strings"
	"testing"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("default-subscription")
	if spec == nil {
		t.Fatal("expected to find key 'default-subscription', got nil")
	}
	if spec.Name != "default-subscription" {
		t.Errorf("expected Name %q, got %q", "default-subscription", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("  REFRESH-INTERVAL ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "refresh-interval" {
		t.Errorf("expected Name %q, got %q", "refresh-interval", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_GetSetRoundtrip(t *testing.T) {
	values := map[string]string{
		"default-subscription":    "proj-a",
		"refresh-interval":        "2m0s",
		"fallback-on-fetch-error": "false",
		"log-file":                "/tmp/skyglass.log",
		"probe-port":              "443",
	}
	for _, k := range Keys {
		v, ok := values[k.Name]
		if !ok {
			t.Errorf("no roundtrip value for key %q", k.Name)
			continue
		}
		cfg := &Config{Subscriptions: []domain.Subscription{{ID: "proj-a", Provider: "hetzner"}}}
		if err := k.Set(cfg, v); err != nil {
			t.Errorf("key %q: Set(%q) failed: %v", k.Name, v, err)
			continue
		}
		if got := k.Get(cfg); got != v {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, v)
		}
	}
}

func TestKeys_SetRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"refresh-interval":        "soon",
		"fallback-on-fetch-error": "maybe",
		"probe-port":              "70000",
	}
	for name, v := range tests {
		if err := Lookup(name).Set(&Config{}, v); err == nil {
			t.Errorf("key %q: expected error for %q", name, v)
		}
	}
	if err := Lookup("refresh-interval").Set(&Config{}, "10ms"); err == nil {
		t.Error("expected error for sub-second refresh interval")
	}
}

func TestKeys_DefaultSubscriptionMustExist(t *testing.T) {
	spec := Lookup("default-subscription")
	cfg := &Config{}
	if err := spec.Set(cfg, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := spec.Set(cfg, "Testing-Subscription-003"); err != nil {
		t.Errorf("sample subscription should be accepted: %v", err)
	}
	if err := spec.Set(cfg, ""); err != nil || cfg.DefaultSubscription != "" {
		t.Errorf("empty value should clear the default, got %q (%v)", cfg.DefaultSubscription, err)
	}
}

func TestKeys_EmptyValueResetsDefault(t *testing.T) {
	off := false
	cfg := &Config{RefreshInterval: "1m0s", FallbackOnFetchError: &off, ProbePort: 443}
	for _, name := range []string{"refresh-interval", "fallback-on-fetch-error", "probe-port"} {
		if err := Lookup(name).Set(cfg, " "); err != nil {
			t.Fatalf("key %q: reset failed: %v", name, err)
		}
	}
	if cfg.RefreshInterval != "" || cfg.FallbackOnFetchError != nil || cfg.ProbePort != 0 {
		t.Errorf("expected zero values after reset, got %+v", cfg)
	}
}

func TestKeys_GetReportsDefaults(t *testing.T) {
	cfg := &Config{}
	if got := Lookup("refresh-interval").Get(cfg); got != "30s" {
		t.Errorf("refresh-interval default = %q, want 30s", got)
	}
	if got := Lookup("fallback-on-fetch-error").Get(cfg); got != "true" {
		t.Errorf("fallback-on-fetch-error default = %q, want true", got)
	}
	if got := Lookup("probe-port").Get(cfg); got != "22" {
		t.Errorf("probe-port default = %q, want 22", got)
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}

func TestKeys_PortOffDisablesChecks(t *testing.T) {
	spec := Lookup("probe-port")
	for _, v := range []string{"off", "0", " OFF "} {
		cfg := &Config{ProbePort: 443}
		if err := spec.Set(cfg, v); err != nil {
			t.Fatalf("Set(%q) failed: %v", v, err)
		}
		if cfg.Port() != 0 {
			t.Errorf("Set(%q): Port() = %d, want 0", v, cfg.Port())
		}
		if got := spec.Get(cfg); got != "off" {
			t.Errorf("Set(%q): Get() = %q, want off", v, got)
		}
	}

	cfg := &Config{ProbePort: ProbeDisabled}
	if err := spec.Set(cfg, ""); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if cfg.Port() != DefaultProbePort {
		t.Errorf("after reset Port() = %d, want %d", cfg.Port(), DefaultProbePort)
	}
}
