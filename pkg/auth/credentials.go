package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// DefaultProfile is the profile name used when none is given
const DefaultProfile = "default"

// Key is a named Unsplash API access key
type Key struct {
	Name         string    `json:"name"`
	AccessKey    string    `json:"access_key"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving access keys
type CredentialStore interface {
	// Store saves a key under its name
	Store(key *Key) error

	// Retrieve gets the key stored under name
	Retrieve(name string) (*Key, error)

	// List returns all stored keys
	List() ([]*Key, error)

	// Delete removes the key stored under name
	Delete(name string) error

	// Exists checks if a key is stored under name
	Exists(name string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager over the given stores, tried in order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves a key using the first store that accepts it
func (m *Manager) Store(key *Key) error {
	if key == nil || strings.TrimSpace(key.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if key.Name == "" {
		key.Name = DefaultProfile
	}
	key.AccessKey = strings.TrimSpace(key.AccessKey)
	key.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(key)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store access key: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets a key from the first store that has it
func (m *Manager) Retrieve(name string) (*Key, error) {
	if name == "" {
		name = DefaultProfile
	}
	for _, store := range m.stores {
		if key, err := store.Retrieve(name); err == nil && key != nil {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w for profile: %s", ErrCredentialsNotFound, name)
}

// RetrieveDefault gets the environment key, then the default profile,
// then the most recently modified stored key
func (m *Manager) RetrieveDefault() (*Key, error) {
	for _, store := range m.stores {
		if env, ok := store.(*EnvironmentStore); ok {
			if key, err := env.Retrieve(""); err == nil {
				return key, nil
			}
		}
	}

	if key, err := m.Retrieve(DefaultProfile); err == nil {
		return key, nil
	}

	keys, err := m.List()
	if err == nil && len(keys) > 0 {
		return keys[0], nil
	}

	return nil, ErrCredentialsNotFound
}

// List returns all stored keys from all stores, newest first
func (m *Manager) List() ([]*Key, error) {
	byName := make(map[string]*Key)

	for _, store := range m.stores {
		keys, err := store.List()
		if err != nil {
			continue
		}
		for _, key := range keys {
			// Use the most recently modified version
			if existing, ok := byName[key.Name]; !ok || key.LastModified.After(existing.LastModified) {
				byName[key.Name] = key
			}
		}
	}

	result := make([]*Key, 0, len(byName))
	for _, key := range byName {
		result = append(result, key)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].LastModified.After(result[j].LastModified)
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Delete removes a key from all stores
func (m *Manager) Delete(name string) error {
	if name == "" {
		name = DefaultProfile
	}

	var deleted bool
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(name); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil && !errors.Is(lastErr, ErrCredentialsNotFound) && !errors.Is(lastErr, ErrStoreUnavailable) {
		return fmt.Errorf("failed to delete access key: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w for profile: %s", ErrCredentialsNotFound, name)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch {
	case os.Getenv("UNSPLASHDL_CONFIG_DIR") != "":
		configDir = os.Getenv("UNSPLASHDL_CONFIG_DIR")
	case runtime.GOOS == "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "unsplashdl")
	case runtime.GOOS == "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "unsplashdl")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "unsplashdl")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "unsplashdl")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// SanitizeKey returns a copy of key with the access key masked
func SanitizeKey(key *Key) *Key {
	if key == nil {
		return nil
	}
	return &Key{
		Name:         key.Name,
		AccessKey:    MaskKey(key.AccessKey),
		LastModified: key.LastModified,
	}
}

// MaskKey masks all but the first 4 and last 4 characters of a string
func MaskKey(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("access key not found")
	ErrInvalidCredentials  = errors.New("invalid access key")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
