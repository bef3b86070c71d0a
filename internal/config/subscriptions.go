package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Subscription returns the configured subscription with the given ID.
// When nothing is configured, the sample subscriptions are searched.
func (c *Config) Subscription(id string) (domain.Subscription, bool) {
	for _, s := range c.AllSubscriptions() {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Subscription{}, false
}

// AllSubscriptions returns the configured subscriptions, or the sample
// subscriptions when none are configured.
func (c *Config) AllSubscriptions() []domain.Subscription {
	if len(c.Subscriptions) == 0 {
		return append([]domain.Subscription(nil), domain.SampleSubscriptions...)
	}
	return append([]domain.Subscription(nil), c.Subscriptions...)
}

// AddSubscription appends sub. IDs must be unique.
func (c *Config) AddSubscription(sub domain.Subscription) error {
	sub.ID = strings.TrimSpace(sub.ID)
	if sub.ID == "" {
		return fmt.Errorf("config: subscription ID is required")
	}
	for _, s := range c.Subscriptions {
		if s.ID == sub.ID {
			return fmt.Errorf("config: subscription %q already exists", sub.ID)
		}
	}
	c.Subscriptions = append(c.Subscriptions, sub)
	return nil
}

// RemoveSubscription deletes a configured subscription and clears the
// default if it pointed at it.
func (c *Config) RemoveSubscription(id string) error {
	for i, s := range c.Subscriptions {
		if s.ID != id {
			continue
		}
		c.Subscriptions = append(c.Subscriptions[:i], c.Subscriptions[i+1:]...)
		if c.DefaultSubscription == id {
			c.DefaultSubscription = ""
		}
		return nil
	}
	return fmt.Errorf("config: subscription %q: %w", id, domain.ErrNotFound)
}
