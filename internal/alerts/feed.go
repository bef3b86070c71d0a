// Package alerts holds the alert feed shown on the dashboard and the
// sources that populate it.
package alerts

import (
	"fmt"
	"sync"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Filter selects which alerts List returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnresolved
)

func (f Filter) String() string {
	if f == FilterUnresolved {
		return "unresolved"
	}
	return "all"
}

// Feed is a mutable, concurrency-safe collection of alerts.
//
// Alerts are ordered newest ingestion batch first; within a batch the
// source order is kept. Alerts are never removed, and once resolved an
// alert stays resolved for the life of the feed.
type Feed struct {
	mu        sync.Mutex
	alerts    []domain.Alert
	index     map[string]int
	resolved  map[string]bool
	onResolve func(domain.Alert)
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// OnResolve registers a hook called after an alert is resolved for the
// first time. It runs outside the feed's lock.
func OnResolve(fn func(domain.Alert)) FeedOption {
	return func(f *Feed) { f.onResolve = fn }
}

// Preresolved marks IDs as resolved before they are ingested, e.g. from a
// persisted resolution history.
func Preresolved(ids ...string) FeedOption {
	return func(f *Feed) {
		for _, id := range ids {
			f.resolved[id] = true
		}
	}
}

// NewFeed returns a feed seeded with initial as its first batch.
func NewFeed(initial []domain.Alert, opts ...FeedOption) *Feed {
	f := &Feed{
		index:    make(map[string]int),
		resolved: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.ingestLocked(initial)
	return f
}

// Ingest merges a batch into the feed and returns how many alerts were new.
//
// New alerts are placed ahead of everything already in the feed. An alert
// whose ID is already present is updated in place: its first-seen
// timestamp is kept and its resolved flag is never cleared.
func (f *Feed) Ingest(batch []domain.Alert) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ingestLocked(batch)
}

func (f *Feed) ingestLocked(batch []domain.Alert) int {
	var fresh []domain.Alert
	seen := make(map[string]bool, len(batch))
	for _, a := range batch {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true

		if f.resolved[a.ID] {
			a.Resolved = true
		}
		if i, ok := f.index[a.ID]; ok {
			prev := f.alerts[i]
			a.Timestamp = prev.Timestamp
			a.Resolved = a.Resolved || prev.Resolved
			f.alerts[i] = a
			if a.Resolved {
				f.resolved[a.ID] = true
			}
			continue
		}
		fresh = append(fresh, a)
	}
	if len(fresh) == 0 {
		return 0
	}

	f.alerts = append(fresh, f.alerts...)
	for i, a := range f.alerts {
		f.index[a.ID] = i
		if a.Resolved {
			f.resolved[a.ID] = true
		}
	}
	return len(fresh)
}

// List returns a copy of the alerts matching filter.
func (f *Feed) List(filter Filter) []domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Apply(f.alerts, filter)
}

// Apply filters alerts without mutating them.
func Apply(alerts []domain.Alert, filter Filter) []domain.Alert {
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if filter == FilterUnresolved && a.Resolved {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Get returns one alert by ID.
func (f *Feed) Get(id string) (domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.index[id]
	if !ok {
		return domain.Alert{}, fmt.Errorf("alert %q: %w", id, domain.ErrNotFound)
	}
	return f.alerts[i], nil
}

// Resolve marks an alert as resolved. Resolving an already resolved alert
// is a no-op. An unknown ID returns an error wrapping domain.ErrNotFound
// and leaves the feed unchanged.
func (f *Feed) Resolve(id string) error {
	f.mu.Lock()
	i, ok := f.index[id]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("resolve alert %q: %w", id, domain.ErrNotFound)
	}
	if f.alerts[i].Resolved {
		f.mu.Unlock()
		return nil
	}
	f.alerts[i].Resolved = true
	f.resolved[id] = true
	resolved := f.alerts[i]
	hook := f.onResolve
	f.mu.Unlock()

	if hook != nil {
		hook(resolved)
	}
	return nil
}

// Counts derives the panel totals from the current collection.
func (f *Feed) Counts() domain.AlertCounts {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Count(f.alerts)
}

// Count derives totals from a list of alerts.
func Count(alerts []domain.Alert) domain.AlertCounts {
	var c domain.AlertCounts
	for _, a := range alerts {
		c.Total++
		if a.Resolved {
			continue
		}
		c.Unresolved++
		if a.Severity == domain.SeverityCritical {
			c.CriticalUnresolved++
		}
	}
	return c
}
