package keyring

import "sync"

// MockStore is an in-memory keyring implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	data    map[string]string
	failing bool
}

// NewMockStore creates a new mock keyring store.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]string),
	}
}

// SetFailing makes all operations fail.
func (m *MockStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

func mockKey(profile, login string) string {
	return profile + "\x00" + login
}

// Set implements Store.
func (m *MockStore) Set(profile, login, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrUnavailable
	}

	m.data[mockKey(profile, login)] = secret
	return nil
}

// Get implements Store.
func (m *MockStore) Get(profile, login string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failing {
		return "", ErrUnavailable
	}

	secret, ok := m.data[mockKey(profile, login)]
	if !ok {
		return "", ErrSecretNotFound
	}
	return secret, nil
}

// Delete implements Store.
func (m *MockStore) Delete(profile, login string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrUnavailable
	}

	if _, ok := m.data[mockKey(profile, login)]; !ok {
		return ErrSecretNotFound
	}
	delete(m.data, mockKey(profile, login))
	return nil
}

// Clear removes all stored secrets.
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
}

// Count returns the number of stored secrets.
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
