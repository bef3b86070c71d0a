package cache

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type inventoryEntry struct {
	Name   string
	Status string
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	key := "inventory:Production-Subscription-001"

	want := []inventoryEntry{{"web", "healthy"}, {"db", "warning"}}
	if err := c.Set(key, want); err != nil {
		t.Fatalf("failed to set cache: %v", err)
	}

	var got []inventoryEntry
	storedAt, hit, err := c.Get(key, 0, &got)
	if err != nil {
		t.Fatalf("failed to get cache: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit, got miss")
	}
	if storedAt.IsZero() {
		t.Error("expected stored time")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_ZeroMaxAgeAcceptsOldEntries(t *testing.T) {
	c := New(t.TempDir())
	key := "inventory:old"

	if err := c.Set(key, []string{"web"}); err != nil {
		t.Fatalf("failed to set cache: %v", err)
	}
	old := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(c.pathForKey(key), old, old); err != nil {
		t.Fatalf("failed to update cache mtime: %v", err)
	}

	var got []string
	storedAt, hit, err := c.Get(key, 0, &got)
	if err != nil {
		t.Fatalf("failed to get cache: %v", err)
	}
	if !hit {
		t.Fatal("expected hit for last-known-good entry")
	}
	if storedAt.Sub(old).Abs() > time.Second {
		t.Errorf("storedAt = %v, want about %v", storedAt, old)
	}
}

func TestCache_ExpiredEntry(t *testing.T) {
	c := New(t.TempDir())
	key := "groups"

	if err := c.Set(key, []string{"production-rg"}); err != nil {
		t.Fatalf("failed to set cache: %v", err)
	}

	path := c.pathForKey(key)
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("failed to update cache mtime: %v", err)
	}

	var got []string
	_, hit, err := c.Get(key, time.Hour, &got)
	if err != nil {
		t.Fatalf("failed to get cache: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss for expired entry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected expired entry to be removed")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	c := New(t.TempDir())
	key := "inventory:corrupt"

	path := c.pathForKey(key)
	if err := os.WriteFile(path, []byte("{invalid json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt cache file: %v", err)
	}

	var got []string
	_, hit, err := c.Get(key, 0, &got)
	if err != nil {
		t.Fatalf("failed to get cache: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss for corrupt entry")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(t.TempDir())
	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(key, key); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}
	}

	if err := c.Delete("a", "b", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var got string
	for _, key := range []string{"a", "b"} {
		if _, hit, _ := c.Get(key, 0, &got); hit {
			t.Errorf("expected miss for %q after Delete", key)
		}
	}
	if _, hit, _ := c.Get("c", 0, &got); !hit {
		t.Error("untouched entry should survive Delete")
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"inventory:sub/1": "inventory_sub_1",
		"  ":              "cache",
		"ok-key_1":        "ok-key_1",
	}
	for in, want := range tests {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	if err := c.Set("k", 1); err != nil {
		t.Fatalf("Set on nil cache: %v", err)
	}
	var v int
	if _, hit, err := c.Get("k", 0, &v); hit || err != nil {
		t.Fatalf("Get on nil cache = (%v, %v), want miss", hit, err)
	}
}
