package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps tokens in the OS keychain under one service name.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = ServiceName
	}
	return &KeyringStore{service: service}
}

func (k *KeyringStore) SetToken(subscription string, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(k.service, accountKey(subscription), token); err != nil {
		return fmt.Errorf("auth: storing token for %s: %w", subscription, err)
	}
	return nil
}

func (k *KeyringStore) GetToken(subscription string) (string, error) {
	token, err := keyring.Get(k.service, accountKey(subscription))
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrTokenNotFound
	default:
		return "", fmt.Errorf("auth: reading token for %s: %w", subscription, err)
	}
}

func (k *KeyringStore) DeleteToken(subscription string) error {
	err := keyring.Delete(k.service, accountKey(subscription))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrTokenNotFound
	default:
		return fmt.Errorf("auth: deleting token for %s: %w", subscription, err)
	}
}
