package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://satni.uit.no/termwiki", cfg.Wiki.URL)
	assert.Equal(t, "./terms.xml", cfg.Dump.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, "hfst-lookup", cfg.Analyser.LookupTool)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("WIKI_URL", "https://example.org/wiki")
	t.Setenv("WIKI_USERNAME", "termbot")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/wiki", cfg.Wiki.URL)
	assert.Equal(t, "termbot", cfg.Wiki.Username)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
wiki:
  url: https://example.org/wiki
  username: termbot
dump:
  path: /data/terms.xml
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/wiki", cfg.Wiki.URL)
	assert.Equal(t, "/data/terms.xml", cfg.Dump.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply to untouched fields.
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Wiki:     WikiConfig{URL: "https://example.org/wiki"},
			Dump:     DumpConfig{Path: "./terms.xml"},
			Database: DatabaseConfig{MaxConns: 10, MinConns: 2},
			Analyser: AnalyserConfig{Timeout: 1},
			Log:      LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty wiki url", func(c *Config) { c.Wiki.URL = "" }, true},
		{"non-http wiki url", func(c *Config) { c.Wiki.URL = "ftp://x" }, true},
		{"empty dump path", func(c *Config) { c.Dump.Path = "" }, true},
		{"zero max conns", func(c *Config) { c.Database.MaxConns = 0 }, true},
		{"min above max", func(c *Config) { c.Database.MinConns = 20 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
