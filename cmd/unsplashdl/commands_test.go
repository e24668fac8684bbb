package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unsplashdl/pkg/auth"
	"unsplashdl/pkg/config"
	"unsplashdl/pkg/ui"
)

func TestSetKey(t *testing.T) {
	quietUI(t)
	manager, store := auth.NewMockManager()

	var out bytes.Buffer
	prompter := ui.NewPrompter(strings.NewReader("abcd1234efgh5678\n"), &out)
	require.NoError(t, setKey(manager, "default", prompter, &out))

	key, err := store.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh5678", key.AccessKey)
	assert.Contains(t, out.String(), "UNSPLASH ACCESS KEY")

	// declining to replace keeps the old key
	prompter = ui.NewPrompter(strings.NewReader("n\n"), &out)
	require.NoError(t, setKey(manager, "default", prompter, &out))
	key, _ = store.Retrieve("default")
	assert.Equal(t, "abcd1234efgh5678", key.AccessKey)

	prompter = ui.NewPrompter(strings.NewReader("y\nnew-key-0000-1111\n"), &out)
	require.NoError(t, setKey(manager, "default", prompter, &out))
	key, _ = store.Retrieve("default")
	assert.Equal(t, "new-key-0000-1111", key.AccessKey)
}

func TestSetKeyRejectsEmpty(t *testing.T) {
	quietUI(t)
	manager, store := auth.NewMockManager()

	prompter := ui.NewPrompter(strings.NewReader("\n"), &bytes.Buffer{})
	assert.Error(t, setKey(manager, "default", prompter, &bytes.Buffer{}))
	assert.Equal(t, 0, store.Count())
}

func TestShowKeys(t *testing.T) {
	manager, store := auth.NewMockManager()

	var out bytes.Buffer
	require.NoError(t, showKeys(manager, &out))
	assert.Contains(t, out.String(), "No stored access keys")

	require.NoError(t, store.Store(&auth.Key{Name: "work", AccessKey: "abcd1234efgh5678"}))
	out.Reset()
	require.NoError(t, showKeys(manager, &out))
	assert.Contains(t, out.String(), "work")
	assert.Contains(t, out.String(), "abcd...5678")
	assert.NotContains(t, out.String(), "abcd1234efgh5678")
}

func TestDeleteKey(t *testing.T) {
	quietUI(t)
	manager, store := auth.NewMockManager()
	require.NoError(t, store.Store(&auth.Key{Name: "default", AccessKey: "abcd1234efgh5678"}))

	require.NoError(t, deleteKey(manager, "default", ui.NewPrompter(strings.NewReader("n\n"), &bytes.Buffer{})))
	assert.Equal(t, 1, store.Count())

	require.NoError(t, deleteKey(manager, "default", ui.NewPrompter(strings.NewReader("y\n"), &bytes.Buffer{})))
	assert.Equal(t, 0, store.Count())

	// deleting again only warns
	require.NoError(t, deleteKey(manager, "default", ui.NewPrompter(strings.NewReader("y\n"), &bytes.Buffer{})))
}

func TestProfileArg(t *testing.T) {
	assert.Equal(t, auth.DefaultProfile, profileArg(nil))
	assert.Equal(t, auth.DefaultProfile, profileArg([]string{""}))
	assert.Equal(t, "work", profileArg([]string{"work"}))
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	require.NoError(t, initConfig(path, false))
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)

	assert.Error(t, initConfig(path, false))
	assert.NoError(t, initConfig(path, true))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestShowConfigMasksKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.AccessKey = "abcd1234efgh5678"

	var out bytes.Buffer
	require.NoError(t, showConfig(cfg, &out))
	assert.Contains(t, out.String(), "abcd...5678")
	assert.NotContains(t, out.String(), "abcd1234efgh5678")
	assert.Equal(t, "abcd1234efgh5678", cfg.API.AccessKey)
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"collect", "download", "auth", "config", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	for _, flag := range []string{"base-url", "access-key", "timeout", "pages", "max-pages", "output", "concurrency", "download-timeout", "extension", "create-dir", "manifest", "count", "tui"} {
		assert.NotNil(t, downloadCmd.Flags().Lookup(flag), "download is missing --%s", flag)
	}
}
