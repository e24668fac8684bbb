package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	errs "unsplashdl/pkg/errors"
)

const (
	// DefaultBaseURL is the public Unsplash API root
	DefaultBaseURL = "https://api.unsplash.com"

	// ExtensionFixed always names downloads {index}.png
	ExtensionFixed = "fixed"
	// ExtensionContentType derives the extension from the response Content-Type
	ExtensionContentType = "content-type"
)

// Config holds all configuration options for unsplashdl
type Config struct {
	// API endpoint and credential
	API APIConfig `yaml:"api" json:"api"`

	// Collection walk settings
	Collect CollectConfig `yaml:"collect" json:"collect"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds the Unsplash API location and the static access key
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	AccessKey string        `yaml:"access_key" json:"access_key"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// CollectConfig holds collection walk configuration
type CollectConfig struct {
	Pages    int `yaml:"pages" json:"pages"`
	MaxPages int `yaml:"max_pages" json:"max_pages"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Destination       string        `yaml:"destination" json:"destination"`
	Concurrency       int           `yaml:"concurrency" json:"concurrency"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	Extension         string        `yaml:"extension" json:"extension"`
	CreateDestination bool          `yaml:"create_destination" json:"create_destination"`
	Manifest          bool          `yaml:"manifest" json:"manifest"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Collect: CollectConfig{
			Pages:    1,
			MaxPages: 5,
		},
		Download: DownloadConfig{
			Destination:       "downloads",
			Concurrency:       1,
			Timeout:           60 * time.Second,
			Extension:         ExtensionFixed,
			CreateDestination: true,
			Manifest:          false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
// BASE_API and ACCESS_KEY are honoured for compatibility with older .env files;
// the UNSPLASHDL_ prefixed names win when both are set.
func (c *Config) LoadFromEnv() error {
	if base := firstEnv("UNSPLASHDL_BASE_API", "BASE_API"); base != "" {
		c.API.BaseURL = base
	}
	if key := firstEnv("UNSPLASHDL_ACCESS_KEY", "ACCESS_KEY"); key != "" {
		c.API.AccessKey = key
	}

	if timeout := os.Getenv("UNSPLASHDL_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid UNSPLASHDL_TIMEOUT %q: %w", timeout, err)
		}
		c.API.Timeout = d
		c.Download.Timeout = d
	}

	if pages := os.Getenv("UNSPLASHDL_PAGES"); pages != "" {
		val, err := strconv.Atoi(pages)
		if err != nil {
			return fmt.Errorf("invalid UNSPLASHDL_PAGES %q: %w", pages, err)
		}
		c.Collect.Pages = val
	}

	if outputDir := os.Getenv("UNSPLASHDL_OUTPUT_DIR"); outputDir != "" {
		c.Download.Destination = outputDir
	}

	if concurrency := os.Getenv("UNSPLASHDL_CONCURRENCY"); concurrency != "" {
		val, err := strconv.Atoi(concurrency)
		if err != nil {
			return fmt.Errorf("invalid UNSPLASHDL_CONCURRENCY %q: %w", concurrency, err)
		}
		c.Download.Concurrency = val
	}

	if ext := os.Getenv("UNSPLASHDL_EXTENSION"); ext != "" {
		c.Download.Extension = strings.ToLower(ext)
	}

	if logLevel := os.Getenv("UNSPLASHDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("UNSPLASHDL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// DefaultPath is where `config init` writes a new file
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "unsplashdl", "config.yaml")
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	locations := []string{
		".unsplashdl.yaml",
		".unsplashdl.yml",
		DefaultPath(),
		filepath.Join(os.Getenv("HOME"), ".config", "unsplashdl", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// The access key is not checked here since it may still come from a credential store.
func (c *Config) Validate() error {
	var problems []error

	if c.API.BaseURL == "" {
		problems = append(problems, errors.New("API base URL is required"))
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		problems = append(problems, fmt.Errorf("API base URL must be http or https: %s", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		problems = append(problems, errors.New("API timeout must be positive"))
	}

	if c.Collect.MaxPages <= 0 {
		problems = append(problems, errors.New("max pages must be positive"))
	}
	if c.Collect.Pages <= 0 || c.Collect.Pages > c.Collect.MaxPages {
		problems = append(problems, fmt.Errorf("pages must be between 1 and %d", c.Collect.MaxPages))
	}

	if c.Download.Destination == "" {
		problems = append(problems, errors.New("download destination is required"))
	}
	if c.Download.Concurrency <= 0 {
		problems = append(problems, errors.New("download concurrency must be positive"))
	}
	if c.Download.Concurrency > 10 {
		problems = append(problems, errors.New("download concurrency should not exceed 10"))
	}
	if c.Download.Timeout <= 0 {
		problems = append(problems, errors.New("download timeout must be positive"))
	}
	switch c.Download.Extension {
	case ExtensionFixed, ExtensionContentType:
	default:
		problems = append(problems, fmt.Errorf("invalid extension policy %q (want %s or %s)", c.Download.Extension, ExtensionFixed, ExtensionContentType))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, errors.New("invalid log level"))
	}

	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may hold the access key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeFlags copies every flag the user explicitly set into the configuration.
// Flags that are not registered on fs are ignored.
func (c *Config) MergeFlags(fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	var problems []error
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	str := func(name string, dst *string) {
		if changed(name) {
			v, err := fs.GetString(name)
			problems = append(problems, err)
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if changed(name) {
			v, err := fs.GetInt(name)
			problems = append(problems, err)
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if changed(name) {
			v, err := fs.GetDuration(name)
			problems = append(problems, err)
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if changed(name) {
			v, err := fs.GetBool(name)
			problems = append(problems, err)
			*dst = v
		}
	}

	str("base-url", &c.API.BaseURL)
	str("access-key", &c.API.AccessKey)
	dur("timeout", &c.API.Timeout)
	num("pages", &c.Collect.Pages)
	num("max-pages", &c.Collect.MaxPages)
	str("output", &c.Download.Destination)
	num("concurrency", &c.Download.Concurrency)
	dur("download-timeout", &c.Download.Timeout)
	str("extension", &c.Download.Extension)
	boolean("create-dir", &c.Download.CreateDestination)
	boolean("manifest", &c.Download.Manifest)
	str("log-level", &c.Logging.Level)
	str("log-file", &c.Logging.File)

	return errors.Join(problems...)
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".unsplashdl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, errs.Config("load config file", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, errs.Config("load environment variables", err)
	}

	if err := config.MergeFlags(flags); err != nil {
		return nil, errs.Config("read command line flags", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errs.Config("validate configuration", err)
	}

	return config, nil
}
