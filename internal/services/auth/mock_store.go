package auth

import "sync"

// MockStore is an in-memory Store for tests. It mirrors the keyring
// store's error behaviour.
type MockStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

func (m *MockStore) SetToken(subscription string, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[accountKey(subscription)] = token
	return nil
}

func (m *MockStore) GetToken(subscription string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[accountKey(subscription)]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MockStore) DeleteToken(subscription string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(subscription)
	if _, ok := m.tokens[key]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, key)
	return nil
}
