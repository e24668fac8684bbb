package auth

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("UNSPLASHDL_ACCESS_KEY", "")
	t.Setenv("ACCESS_KEY", "")
}

func TestCredentialManager(t *testing.T) {
	clearKeyEnv(t)
	manager, mockStore := NewMockManager()

	key := &Key{Name: "work", AccessKey: "  abcd1234efgh5678  "}
	if err := manager.Store(key); err != nil {
		t.Fatalf("Failed to store key: %v", err)
	}

	retrieved, err := manager.Retrieve("work")
	if err != nil {
		t.Fatalf("Failed to retrieve key: %v", err)
	}
	if retrieved.AccessKey != "abcd1234efgh5678" {
		t.Errorf("Expected trimmed access key, got %q", retrieved.AccessKey)
	}
	if retrieved.LastModified.IsZero() {
		t.Error("Expected LastModified to be set")
	}

	keys, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list keys: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("Expected 1 key, got %d", len(keys))
	}

	if err := manager.Delete("work"); err != nil {
		t.Errorf("Failed to delete key: %v", err)
	}
	if _, err := manager.Retrieve("work"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 keys after deletion, got %d", mockStore.Count())
	}
}

func TestManagerStoreValidation(t *testing.T) {
	manager, mockStore := NewMockManager()

	if err := manager.Store(&Key{Name: "x", AccessKey: "   "}); err == nil {
		t.Error("Expected an error for a blank access key")
	}
	if err := manager.Store(nil); err == nil {
		t.Error("Expected an error for a nil key")
	}

	if err := manager.Store(&Key{AccessKey: "k"}); err != nil {
		t.Fatalf("Failed to store unnamed key: %v", err)
	}
	if !mockStore.Exists(DefaultProfile) {
		t.Error("Expected unnamed key to be stored under the default profile")
	}
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	first := NewMockStore()
	first.StoreError = fmt.Errorf("keychain locked")
	second := NewMockStore()
	manager := NewManagerWithStores(first, second)

	if err := manager.Store(&Key{Name: "a", AccessKey: "key-a"}); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}
	if first.Count() != 0 || second.Count() != 1 {
		t.Errorf("Expected the key in the second store, got %d/%d", first.Count(), second.Count())
	}

	second.StoreError = fmt.Errorf("disk full")
	err := manager.Store(&Key{Name: "b", AccessKey: "key-b"})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected last store error, got %v", err)
	}
}

func TestManagerRetrieveDefault(t *testing.T) {
	clearKeyEnv(t)
	store := NewMockStore()
	manager := NewManagerWithStores(store, NewEnvironmentStore())

	if _, err := manager.RetrieveDefault(); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}

	older := time.Now().Add(-time.Hour)
	_ = store.Store(&Key{Name: "old", AccessKey: "old-key", LastModified: older})
	_ = store.Store(&Key{Name: "new", AccessKey: "new-key", LastModified: time.Now()})

	key, err := manager.RetrieveDefault()
	if err != nil {
		t.Fatalf("Failed to retrieve default: %v", err)
	}
	if key.Name != "new" {
		t.Errorf("Expected the newest key, got %s", key.Name)
	}

	_ = store.Store(&Key{Name: DefaultProfile, AccessKey: "default-key", LastModified: older})
	key, _ = manager.RetrieveDefault()
	if key.AccessKey != "default-key" {
		t.Errorf("Expected the default profile, got %s", key.Name)
	}

	t.Setenv("ACCESS_KEY", "env-key")
	key, _ = manager.RetrieveDefault()
	if key.AccessKey != "env-key" {
		t.Errorf("Expected the environment key to win, got %s", key.AccessKey)
	}
}

func TestManagerDeleteMissing(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore(), NewEnvironmentStore())
	if err := manager.Delete("ghost"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
}

func TestEncryptedFileStore(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "nested", "creds.enc")

	store, err := NewEncryptedFileStoreWithPassphrase(tempFile, "test_passphrase_123")
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	key := &Key{Name: "encrypted", AccessKey: "super-secret-access-key"}
	if err := store.Store(key); err != nil {
		t.Fatalf("Failed to store in encrypted file: %v", err)
	}

	retrieved, err := store.Retrieve("encrypted")
	if err != nil {
		t.Fatalf("Failed to retrieve from encrypted file: %v", err)
	}
	if retrieved.AccessKey != key.AccessKey {
		t.Errorf("AccessKey mismatch after encryption/decryption")
	}

	fileContent, err := os.ReadFile(tempFile)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(fileContent, []byte("super-secret-access-key")) {
		t.Error("File contains plaintext access key")
	}

	info, err := os.Stat(tempFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	// a different passphrase cannot read the file
	other, _ := NewEncryptedFileStoreWithPassphrase(tempFile, "wrong")
	if _, err := other.Retrieve("encrypted"); err == nil {
		t.Error("Expected decryption with the wrong passphrase to fail")
	}

	// removing the last key removes the file
	if err := store.Delete("encrypted"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := os.Stat(tempFile); !os.IsNotExist(err) {
		t.Error("Expected the file to be removed with its last key")
	}
	if err := store.Delete("encrypted"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv("UNSPLASHDL_PASSPHRASE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := store.Store(&Key{Name: DefaultProfile, AccessKey: "generated"}); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".passphrase")); err != nil {
		t.Errorf("Expected a passphrase file: %v", err)
	}

	reopened, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	key, err := reopened.Retrieve(DefaultProfile)
	if err != nil || key.AccessKey != "generated" {
		t.Errorf("Expected reopened store to decrypt, got %v, %v", key, err)
	}
}

func TestEnvironmentStore(t *testing.T) {
	clearKeyEnv(t)
	store := NewEnvironmentStore()

	if _, err := store.Retrieve(""); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
	if store.Exists("") {
		t.Error("Expected no environment key")
	}

	t.Setenv("ACCESS_KEY", "legacy_key")
	key, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve from environment: %v", err)
	}
	if key.AccessKey != "legacy_key" {
		t.Errorf("AccessKey mismatch: got %s, want legacy_key", key.AccessKey)
	}

	t.Setenv("UNSPLASHDL_ACCESS_KEY", "prefixed_key")
	key, _ = store.Retrieve("")
	if key.AccessKey != "prefixed_key" {
		t.Errorf("Expected UNSPLASHDL_ACCESS_KEY to take precedence, got %s", key.AccessKey)
	}

	if err := store.Store(&Key{}); err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
	if err := store.Delete("x"); err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
}

func TestRealManagerWithEncryptedStore(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("UNSPLASHDL_PASSPHRASE", "test_passphrase_real_manager")

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(t.TempDir(), "credentials.enc"))
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}
	manager := NewManagerWithStores(encryptedStore, NewEnvironmentStore())

	if err := manager.Store(&Key{Name: "real", AccessKey: "real_access_key"}); err != nil {
		t.Fatalf("Failed to store key: %v", err)
	}

	keys, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list keys: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("Expected 1 key in list, got %d", len(keys))
	}

	retrieved, err := manager.Retrieve("real")
	if err != nil {
		t.Fatalf("Failed to retrieve key: %v", err)
	}
	if retrieved.AccessKey != "real_access_key" {
		t.Errorf("AccessKey mismatch: got %s", retrieved.AccessKey)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	keys, err := store.List()
	if err != nil {
		t.Errorf("Failed to list empty store: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Expected 0 keys, got %d", len(keys))
	}

	if err := store.Store(&Key{Name: "mock", AccessKey: "mock_key"}); err != nil {
		t.Errorf("Failed to store key: %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Expected 1 key, got %d", store.Count())
	}
	if !store.Exists("mock") {
		t.Error("Key should exist")
	}

	store.ListError = fmt.Errorf("injected error")
	_, err = store.List()
	if err == nil || err.Error() != "injected error" {
		t.Error("Expected injected error")
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":                 "********",
		"short":            "********",
		"12345678":         "********",
		"abcd1234efgh5678": "abcd...5678",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}

	sanitized := SanitizeKey(&Key{Name: "n", AccessKey: "abcd1234efgh5678"})
	if sanitized.AccessKey != "abcd...5678" || sanitized.Name != "n" {
		t.Errorf("Unexpected sanitized key: %+v", sanitized)
	}
	if SanitizeKey(nil) != nil {
		t.Error("Expected nil for nil key")
	}
}

func TestShowAccessKeyGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowAccessKeyGuide(&buf)
	if !strings.Contains(buf.String(), "https://unsplash.com/developers") {
		t.Error("Expected the guide to point at the developer portal")
	}
}
