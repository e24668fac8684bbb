package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "unsplashdl/pkg/errors"
)

var envVars = []string{
	"BASE_API",
	"ACCESS_KEY",
	"UNSPLASHDL_BASE_API",
	"UNSPLASHDL_ACCESS_KEY",
	"UNSPLASHDL_TIMEOUT",
	"UNSPLASHDL_PAGES",
	"UNSPLASHDL_OUTPUT_DIR",
	"UNSPLASHDL_CONCURRENCY",
	"UNSPLASHDL_EXTENSION",
	"UNSPLASHDL_LOG_LEVEL",
	"UNSPLASHDL_LOG_FILE",
}

// clearEnv blanks every variable LoadFromEnv reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Empty(t, cfg.API.AccessKey)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)

	assert.Equal(t, 1, cfg.Collect.Pages)
	assert.Equal(t, 5, cfg.Collect.MaxPages)

	assert.Equal(t, "downloads", cfg.Download.Destination)
	assert.Equal(t, 1, cfg.Download.Concurrency)
	assert.Equal(t, ExtensionFixed, cfg.Download.Extension)
	assert.True(t, cfg.Download.CreateDestination)
	assert.False(t, cfg.Download.Manifest)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Equal(t, 100, cfg.Logging.MaxSize)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNSPLASHDL_BASE_API", "http://localhost:9000")
	t.Setenv("UNSPLASHDL_ACCESS_KEY", "env-key")
	t.Setenv("UNSPLASHDL_TIMEOUT", "5s")
	t.Setenv("UNSPLASHDL_PAGES", "3")
	t.Setenv("UNSPLASHDL_OUTPUT_DIR", "/tmp/unsplash")
	t.Setenv("UNSPLASHDL_CONCURRENCY", "4")
	t.Setenv("UNSPLASHDL_EXTENSION", "Content-Type")
	t.Setenv("UNSPLASHDL_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, "env-key", cfg.API.AccessKey)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Download.Timeout)
	assert.Equal(t, 3, cfg.Collect.Pages)
	assert.Equal(t, "/tmp/unsplash", cfg.Download.Destination)
	assert.Equal(t, 4, cfg.Download.Concurrency)
	assert.Equal(t, ExtensionContentType, cfg.Download.Extension)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvLegacyNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_API", "https://legacy.example.com")
	t.Setenv("ACCESS_KEY", "legacy-key")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "https://legacy.example.com", cfg.API.BaseURL)
	assert.Equal(t, "legacy-key", cfg.API.AccessKey)

	t.Setenv("UNSPLASHDL_ACCESS_KEY", "prefixed-key")
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "prefixed-key", cfg.API.AccessKey)
}

func TestLoadFromEnvInvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNSPLASHDL_PAGES", "many")
	assert.Error(t, DefaultConfig().LoadFromEnv())

	clearEnv(t)
	t.Setenv("UNSPLASHDL_TIMEOUT", "soon")
	assert.Error(t, DefaultConfig().LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	t.Run("valid yaml file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		contents := `
api:
  base_url: https://api.example.com
  access_key: file-key
  timeout: 10s
collect:
  pages: 2
  max_pages: 8
download:
  destination: /srv/photos
  concurrency: 3
  timeout: 45s
  extension: content-type
  create_destination: false
  manifest: true
logging:
  level: warn
  file: /var/log/unsplashdl.log
  max_size: 50
  compress: true
`
		require.NoError(t, os.WriteFile(configPath, []byte(contents), 0644))

		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFromFile(configPath))

		assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
		assert.Equal(t, "file-key", cfg.API.AccessKey)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, 2, cfg.Collect.Pages)
		assert.Equal(t, 8, cfg.Collect.MaxPages)
		assert.Equal(t, "/srv/photos", cfg.Download.Destination)
		assert.Equal(t, 3, cfg.Download.Concurrency)
		assert.Equal(t, 45*time.Second, cfg.Download.Timeout)
		assert.Equal(t, ExtensionContentType, cfg.Download.Extension)
		assert.False(t, cfg.Download.CreateDestination)
		assert.True(t, cfg.Download.Manifest)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, 50, cfg.Logging.MaxSize)
		assert.True(t, cfg.Logging.Compress)
		// untouched keys keep their defaults
		assert.Equal(t, 3, cfg.Logging.MaxBackups)
	})

	t.Run("missing file", func(t *testing.T) {
		err := DefaultConfig().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("api: [unclosed"), 0644))
		assert.Error(t, DefaultConfig().LoadFromFile(configPath))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"non-http base url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, true},
		{"zero pages", func(c *Config) { c.Collect.Pages = 0 }, true},
		{"pages above max", func(c *Config) { c.Collect.Pages = 6 }, true},
		{"pages at max", func(c *Config) { c.Collect.Pages = 5 }, false},
		{"empty destination", func(c *Config) { c.Download.Destination = "" }, true},
		{"zero concurrency", func(c *Config) { c.Download.Concurrency = 0 }, true},
		{"concurrency too high", func(c *Config) { c.Download.Concurrency = 11 }, true},
		{"unknown extension", func(c *Config) { c.Download.Extension = "jpeg" }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("access-key", "", "")
	fs.Int("pages", 1, "")
	fs.String("output", "downloads", "")
	fs.Int("concurrency", 1, "")
	fs.Duration("timeout", 30*time.Second, "")
	fs.Bool("manifest", false, "")
	fs.String("log-level", "info", "")
	return fs
}

func TestMergeFlags(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--access-key", "flag-key",
		"--pages", "4",
		"--output", "/flag/output",
		"--timeout", "2s",
		"--manifest",
	}))

	cfg := DefaultConfig()
	cfg.Download.Concurrency = 6
	require.NoError(t, cfg.MergeFlags(fs))

	assert.Equal(t, "flag-key", cfg.API.AccessKey)
	assert.Equal(t, 4, cfg.Collect.Pages)
	assert.Equal(t, "/flag/output", cfg.Download.Destination)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Download.Manifest)
	// flags left at their defaults do not override
	assert.Equal(t, 6, cfg.Download.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.MergeFlags(nil))
}

func TestSaveAndLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.AccessKey = "saved-key"
	cfg.Download.Concurrency = 8
	require.NoError(t, cfg.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))
	assert.Equal(t, "saved-key", loaded.API.AccessKey)
	assert.Equal(t, 8, loaded.Download.Concurrency)
	assert.Equal(t, cfg.API.Timeout, loaded.API.Timeout)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("collect:\n  pages: 2\ndownload:\n  destination: from-file\n"), 0644))

	t.Setenv("UNSPLASHDL_OUTPUT_DIR", "from-env")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--pages", "3"}))

	cfg, err := Load(configPath, fs)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Collect.Pages)
	assert.Equal(t, "from-env", cfg.Download.Destination)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--pages", "9"}))

	_, err := Load("", fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pages must be between 1 and 5")
	assert.Equal(t, errs.KindConfig, errs.KindOf(err))
}

func TestLoadUnreadableFileIsConfigError(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("collect: [not, a, map"), 0644))

	_, err := Load(configPath, nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindConfig, errs.KindOf(err))
}
