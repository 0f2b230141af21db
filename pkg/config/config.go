// Package config loads and saves goup settings. Values come from a YAML
// file in the goup home, overridden by GOUP_* environment variables, which
// are in turn overridden by command line flags.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/fsutil"
	"github.com/glorpus-work/goup/pkg/remote"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
	Hooks    Hooks    `yaml:"hooks,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Upstream
	RegistryIndex string `yaml:"registry_index"` // "kind|host", e.g. "official|https://go.dev"
	Registry      string `yaml:"registry"`       // base URL archives are downloaded from
	SourceGitURL  string `yaml:"source_git_url"` // repository cloned for gotip

	// Network settings
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`

	// Install behavior
	SkipVerify             bool `yaml:"skip_verify"`
	EnableCheckArchiveSize bool `yaml:"enable_check_archive_size"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Hooks holds optional tengo scripts run after install and removal. A value
// ending in ".tengo" is a file path relative to the config file; anything
// else is the script source.
type Hooks struct {
	PostInstall string `yaml:"post_install,omitempty"`
	PostRemove  string `yaml:"post_remove,omitempty"`
}

// Environment overrides.
const (
	EnvRegistryIndex = "GOUP_GO_REGISTRY_INDEX"
	EnvRegistry      = "GOUP_GO_REGISTRY"
	EnvSourceGitURL  = "GOUP_GO_SOURCE_GIT_URL"
)

// Default configuration values.
const (
	DefaultRegistryIndex   = "official|https://go.dev"
	DefaultRegistry        = "https://dl.google.com/go"
	DefaultSourceGitURL    = "https://github.com/golang/go"
	UpstreamGitURL         = "https://go.googlesource.com/go"
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultDownloadTimeout = 30 * time.Second

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			RegistryIndex:   DefaultRegistryIndex,
			Registry:        DefaultRegistry,
			SourceGitURL:    DefaultSourceGitURL,
			HTTPTimeout:     DefaultHTTPTimeout,
			DownloadTimeout: DefaultDownloadTimeout,
			OutputFormat:    "text",
			LogLevel:        "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(errors.ErrIO, "failed to open config file %s: %v", path, err)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrIO, "failed to read config data: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig replaces the file at path in one step, so a crash never
// leaves a half-written config behind.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrapf(errors.ErrIO, "failed to create config directory: %v", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return errors.Wrapf(errors.ErrIO, "failed to replace config file: %v", err)
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// ApplyEnv overrides settings from GOUP_* environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvRegistryIndex, &c.Settings.RegistryIndex)
	set(EnvRegistry, &c.Settings.Registry)
	set(EnvSourceGitURL, &c.Settings.SourceGitURL)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrValidation
	}
	s := c.Settings
	if _, err := remote.ParseSpec(s.RegistryIndex); err != nil {
		return err
	}
	if !strings.HasPrefix(s.Registry, "http://") && !strings.HasPrefix(s.Registry, "https://") {
		return errors.Wrapf(errors.ErrValidation, "registry must be an http(s) URL, got %q", s.Registry)
	}
	if s.SourceGitURL == "" {
		return errors.Wrap(errors.ErrValidation, "source_git_url cannot be empty")
	}
	if s.HTTPTimeout < 0 || s.DownloadTimeout < 0 {
		return errors.Wrap(errors.ErrValidation, "timeouts cannot be negative")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.Wrapf(errors.ErrValidation, "invalid output format %q (must be text or json)", s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.Wrapf(errors.ErrValidation, "invalid log level %q (must be debug, info, warn or error)", s.LogLevel)
	}
	return nil
}

// HookScript returns the source of the hook stored in value, reading it
// from disk when value names a .tengo file relative to configDir.
func HookScript(value, configDir string) (string, error) {
	if !strings.HasSuffix(strings.TrimSpace(value), ".tengo") {
		return value, nil
	}
	path := strings.TrimSpace(value)
	if !filepath.IsAbs(path) {
		path = filepath.Join(configDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrIO, "read hook script %s: %v", path, err)
	}
	return string(data), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig().Settings

	if c.Settings.RegistryIndex == "" {
		c.Settings.RegistryIndex = defaults.RegistryIndex
	}
	if c.Settings.Registry == "" {
		c.Settings.Registry = defaults.Registry
	}
	if c.Settings.SourceGitURL == "" {
		c.Settings.SourceGitURL = defaults.SourceGitURL
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.HTTPTimeout
	}
	if c.Settings.DownloadTimeout == 0 {
		c.Settings.DownloadTimeout = defaults.DownloadTimeout
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.LogLevel
	}
}
