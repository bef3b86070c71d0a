// Package auth stores per-subscription API tokens.
package auth

import (
	"errors"
	"strings"
)

const ServiceName = "skyglass"

var (
	ErrTokenNotFound = errors.New("auth token not found")
	ErrEmptyToken    = errors.New("auth token is empty")
)

// Store keeps one token per subscription ID.
type Store interface {
	SetToken(subscription string, token string) error
	GetToken(subscription string) (string, error)
	DeleteToken(subscription string) error
}

// DefaultStore returns the OS keychain store, with tokens from the
// environment taking precedence (see EnvVar).
func DefaultStore() Store {
	return WithEnv(NewKeyringStore(ServiceName))
}

// accountKey trims the subscription ID. Case is preserved because
// subscription IDs are case-sensitive.
func accountKey(subscription string) string {
	return strings.TrimSpace(subscription)
}
