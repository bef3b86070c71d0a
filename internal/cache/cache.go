// Package cache keeps the last successful result of a fetch on disk, one
// JSON file per key. It is a fallback store: entries are read back only
// when a live fetch fails.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache provides a simple file-backed cache.
type Cache struct {
	dir string
}

// New returns a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	return &Cache{dir: defaultDir()}
}

// Get decodes the entry for key into dest and reports when it was stored.
// Entries older than maxAge are treated as misses and removed; a maxAge of
// zero accepts any age. Corrupt entries are misses, not errors.
func (c *Cache) Get(key string, maxAge time.Duration, dest any) (time.Time, bool, error) {
	if c == nil || c.dir == "" {
		return time.Time{}, false, nil
	}

	path := c.pathForKey(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}

	storedAt := info.ModTime()
	if maxAge > 0 && time.Now().After(storedAt.Add(maxAge)) {
		_ = os.Remove(path)
		return time.Time{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return time.Time{}, false, nil
	}

	return storedAt, true, nil
}

// Set stores data under key, replacing any previous entry atomically.
func (c *Cache) Set(key string, data any) error {
	if c == nil || c.dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, c.pathForKey(key))
}

// Delete removes the entries for keys. Missing entries are ignored.
func (c *Cache) Delete(keys ...string) error {
	if c == nil || c.dir == "" {
		return nil
	}

	var errs []error
	for _, key := range keys {
		if err := os.Remove(c.pathForKey(key)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "skyglass")
}

// sanitizeKey maps a key to a safe file name. Subscription IDs may contain
// slashes or dots, so anything outside [A-Za-z0-9_-] becomes '_'.
func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteByte(ch)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
