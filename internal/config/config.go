// Package config provides configuration loading for the freelancehub client.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Env variables that override the config file.
const (
	EnvServer     = "FREELANCEHUB_SERVER"
	EnvDB         = "FREELANCEHUB_DB"
	EnvPassphrase = "FREELANCEHUB_STORE_PASSPHRASE"
	EnvLogLevel   = "FREELANCEHUB_LOG_LEVEL"
)

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config represents the complete client configuration
type Config struct {
	Server  string        `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Guard   GuardConfig   `yaml:"guard"`
	Metrics MetricsConfig `yaml:"metrics"`
	Timeout time.Duration `yaml:"timeout"`
	Session SessionConfig `yaml:"session"`
}

// StorageConfig configures where the credential pair is kept
type StorageConfig struct {
	// Driver is bolt, sqlite or memory
	Driver string `yaml:"driver"`
	// Path is the database file (ignored for memory)
	Path string `yaml:"path"`
	// Passphrase enables at-rest encryption of tokens when set
	Passphrase string `yaml:"passphrase"`
}

// SessionConfig configures failure interception
type SessionConfig struct {
	// FallbackRedirect sends the user to root on any unhandled API error
	FallbackRedirect bool `yaml:"fallback_redirect"`
}

// GuardConfig configures route guards
type GuardConfig struct {
	// Mode is remote (ask the server) or local (check exp only)
	Mode string `yaml:"mode"`
}

// LogConfig configures slog output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	// File receives metrics in Prometheus text format on exit (empty = off)
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server:  "http://localhost:3000",
		Timeout: 30 * time.Second,
		Storage: StorageConfig{
			Driver: DriverBolt,
			Path:   DefaultDBPath(),
		},
		Guard: GuardConfig{Mode: "remote"},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultDBPath returns ~/.freelancehub/session.db, or a file in the current
// directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "freelancehub-session.db"
	}
	return filepath.Join(home, ".freelancehub", "session.db")
}

// DefaultConfigPath returns ~/.freelancehub/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".freelancehub", "config.yaml")
}

// Load reads path (if it exists), then applies env overrides.
// A missing file is not an error when the path is the default one.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		loaded, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath():
		default:
			return nil, err
		}
	}

	cfg.ApplyEnv(getenv)
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file. The passphrase is never
// written.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	out.Storage.Passphrase = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from FREELANCEHUB_* variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvServer); v != "" {
		c.Server = v
	}
	if v := getenv(EnvDB); v != "" {
		c.Storage.Path = v
	}
	if v := getenv(EnvPassphrase); v != "" {
		c.Storage.Passphrase = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server must be an http(s) URL, got %q", c.Server)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	switch c.Storage.Driver {
	case DriverBolt, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for %s driver", c.Storage.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be bolt, sqlite or memory, got %q", c.Storage.Driver)
	}

	switch c.Guard.Mode {
	case "remote", "local":
	default:
		return fmt.Errorf("guard.mode must be remote or local, got %q", c.Guard.Mode)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// ParseLevel maps debug|info|warn|error to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds the slog logger described by the config
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
