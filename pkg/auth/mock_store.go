package auth

import (
	"sync"
)

// MockStore implements CredentialStore in memory for tests
type MockStore struct {
	keys map[string]*Key
	mu   sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{
		keys: make(map[string]*Key),
	}
}

// Store saves a copy of key
func (m *MockStore) Store(key *Key) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if key == nil || key.Name == "" {
		return ErrInvalidCredentials
	}

	keyCopy := *key
	m.keys[key.Name] = &keyCopy
	return nil
}

// Retrieve returns a copy of the key stored under name
func (m *MockStore) Retrieve(name string) (*Key, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		return nil, ErrInvalidCredentials
	}

	key, exists := m.keys[name]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	keyCopy := *key
	return &keyCopy, nil
}

// List returns copies of all keys
func (m *MockStore) List() ([]*Key, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]*Key, 0, len(m.keys))
	for _, key := range m.keys {
		keyCopy := *key
		keys = append(keys, &keyCopy)
	}
	return keys, nil
}

// Delete removes the key stored under name
func (m *MockStore) Delete(name string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return ErrInvalidCredentials
	}
	if _, exists := m.keys[name]; !exists {
		return ErrCredentialsNotFound
	}

	delete(m.keys, name)
	return nil
}

// Exists checks if a key is stored under name
func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.keys[name]
	return exists
}

// Count returns the number of stored keys
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.keys)
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	return NewManagerWithStores(mockStore), mockStore
}
