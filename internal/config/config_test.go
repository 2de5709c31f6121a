package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:3000", cfg.Server)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, "remote", cfg.Guard.Mode)
	assert.False(t, cfg.Session.FallbackRedirect)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"memory driver without path", func(c *Config) { c.Storage.Driver = DriverMemory; c.Storage.Path = "" }, false},
		{"sqlite driver", func(c *Config) { c.Storage.Driver = DriverSQLite }, false},
		{"local guard", func(c *Config) { c.Guard.Mode = "local" }, false},
		{"json logs", func(c *Config) { c.Log.Format = "json" }, false},
		{"relative server", func(c *Config) { c.Server = "localhost:3000" }, true},
		{"ftp server", func(c *Config) { c.Server = "ftp://host" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, true},
		{"bolt without path", func(c *Config) { c.Storage.Path = "" }, true},
		{"unknown guard mode", func(c *Config) { c.Guard.Mode = "strict" }, true},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }, true},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server: https://api.example.com
timeout: 5s
storage:
  driver: sqlite
  path: /tmp/s.db
session:
  fallback_redirect: true
guard:
  mode: local
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Server)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/s.db", cfg.Storage.Path)
	assert.True(t, cfg.Session.FallbackRedirect)
	assert.Equal(t, "local", cfg.Guard.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: http://other:9000\n"), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://other:9000", cfg.Server)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, err := Load("", envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), envMap(nil))
		assert.Error(t, err)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: http://file:1\nlog:\n  level: error\n"), 0600))

		cfg, err := Load(path, envMap(map[string]string{
			EnvServer:     "http://env:2",
			EnvDB:         "/var/lib/fh.db",
			EnvPassphrase: "s3cret",
			EnvLogLevel:   "debug",
		}))
		require.NoError(t, err)
		assert.Equal(t, "http://env:2", cfg.Server)
		assert.Equal(t, "/var/lib/fh.db", cfg.Storage.Path)
		assert.Equal(t, "s3cret", cfg.Storage.Passphrase)
		assert.Equal(t, "debug", cfg.Log.Level)
	})
}

func TestSaveToFile_OmitsPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Passphrase = "s3cret"
	cfg.Timeout = 10 * time.Second

	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, loaded.Timeout)
	assert.Empty(t, loaded.Storage.Passphrase)
	assert.Equal(t, "s3cret", cfg.Storage.Passphrase)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Log.Format = "json"
	cfg.Log.Level = "info"

	logger := cfg.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}
