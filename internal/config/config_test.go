package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultSubscription != "" {
		t.Errorf("expected empty DefaultSubscription, got %q", cfg.DefaultSubscription)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyglass", "config.json")

	off := false
	want := &Config{
		DefaultSubscription:  "proj-a",
		RefreshInterval:      "1m0s",
		FallbackOnFetchError: &off,
		ProbePort:            443,
		Subscriptions: []domain.Subscription{
			{ID: "proj-a", Provider: "hetzner", DisplayName: "Project A"},
		},
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad_DisabledPortSurvives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := (&Config{ProbePort: ProbeDisabled}).SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Port() != 0 {
		t.Errorf("Port() = %d, want 0", got.Port())
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{DefaultSubscription: "proj-a"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestPathOverride(t *testing.T) {
	t.Cleanup(ResetPath)
	path := filepath.Join(t.TempDir(), "config.json")
	SetPath(path)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got != path {
		t.Errorf("Path = %q, want %q", got, path)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.Refresh() != 30*time.Second {
		t.Errorf("Refresh() = %v, want 30s", cfg.Refresh())
	}
	if !cfg.Fallback() {
		t.Error("Fallback() should default to true")
	}
	if cfg.Port() != 22 {
		t.Errorf("Port() = %d, want 22", cfg.Port())
	}

	cfg.RefreshInterval = "garbage"
	if cfg.Refresh() != DefaultRefreshInterval {
		t.Errorf("invalid interval should fall back to default, got %v", cfg.Refresh())
	}
}

func TestAllSubscriptions_FallsBackToSamples(t *testing.T) {
	cfg := &Config{}
	if diff := cmp.Diff(domain.SampleSubscriptions, cfg.AllSubscriptions()); diff != "" {
		t.Errorf("subscriptions mismatch (-want +got):\n%s", diff)
	}
	if _, ok := cfg.Subscription("Production-Subscription-001"); !ok {
		t.Error("sample subscription should be found when none are configured")
	}

	if err := cfg.AddSubscription(domain.Subscription{ID: "proj", Provider: "hetzner"}); err != nil {
		t.Fatalf("AddSubscription: %v", err)
	}
	if got := cfg.AllSubscriptions(); len(got) != 1 || got[0].ID != "proj" {
		t.Errorf("configured subscriptions should replace samples, got %+v", got)
	}
	if _, ok := cfg.Subscription("Production-Subscription-001"); ok {
		t.Error("samples should be hidden once a subscription is configured")
	}
}

func TestAddSubscription_Validation(t *testing.T) {
	cfg := &Config{}
	if err := cfg.AddSubscription(domain.Subscription{ID: "  "}); err == nil {
		t.Error("expected error for empty ID")
	}
	if err := cfg.AddSubscription(domain.Subscription{ID: "a"}); err != nil {
		t.Fatalf("AddSubscription: %v", err)
	}
	if err := cfg.AddSubscription(domain.Subscription{ID: "a"}); err == nil {
		t.Error("expected error for duplicate ID")
	}
}

func TestRemoveSubscription(t *testing.T) {
	cfg := &Config{DefaultSubscription: "a"}
	_ = cfg.AddSubscription(domain.Subscription{ID: "a"})
	_ = cfg.AddSubscription(domain.Subscription{ID: "b"})

	if err := cfg.RemoveSubscription("a"); err != nil {
		t.Fatalf("RemoveSubscription: %v", err)
	}
	if cfg.DefaultSubscription != "" {
		t.Errorf("default should be cleared, got %q", cfg.DefaultSubscription)
	}
	if len(cfg.Subscriptions) != 1 || cfg.Subscriptions[0].ID != "b" {
		t.Errorf("unexpected subscriptions: %+v", cfg.Subscriptions)
	}
	if err := cfg.RemoveSubscription("a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_NormalisesHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
  "default_subscription": "gone",
  "subscriptions": [{"id": "proj-a", "provider": " Hetzner "}]
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DefaultSubscription != "" {
		t.Errorf("dangling default should be dropped, got %q", cfg.DefaultSubscription)
	}
	if got := cfg.Subscriptions[0].Provider; got != "hetzner" {
		t.Errorf("Provider = %q, want hetzner", got)
	}
}

func TestPath_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elsewhere.json")
	t.Setenv(EnvPath, path)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got != path {
		t.Errorf("Path = %q, want %q", got, path)
	}
}

func TestSaveTo_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{DefaultSubscription: "proj-a"}
	for i := 0; i < 2; i++ {
		if err := cfg.SaveTo(filepath.Join(dir, "config.json")); err != nil {
			t.Fatalf("SaveTo: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.json, found %d entries", len(entries))
	}
}
