package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore over environment variables.
// It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func envAccessKey() string {
	if v := os.Getenv("UNSPLASHDL_ACCESS_KEY"); v != "" {
		return v
	}
	return os.Getenv("ACCESS_KEY")
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(key *Key) error {
	return ErrStoreUnavailable
}

// Retrieve returns the key from UNSPLASHDL_ACCESS_KEY or ACCESS_KEY under
// any requested name
func (e *EnvironmentStore) Retrieve(name string) (*Key, error) {
	accessKey := envAccessKey()
	if accessKey == "" {
		return nil, ErrCredentialsNotFound
	}
	if name == "" {
		name = "environment"
	}
	return &Key{
		Name:         name,
		AccessKey:    accessKey,
		LastModified: time.Now(),
	}, nil
}

// List returns nothing; environment keys are not stored profiles
func (e *EnvironmentStore) List() ([]*Key, error) {
	return []*Key{}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment key is set
func (e *EnvironmentStore) Exists(name string) bool {
	return envAccessKey() != ""
}
