package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "none", cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"unknown currency", func(c *Config) { c.Currency = "XXXX" }, "unknown currency"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers must not be negative"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "postgres" }, "journal.type must be"},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }, "journal.path required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capgains.yaml")
	content := `
currency: EUR
log_level: debug
parallel: true
workers: 4
journal:
  type: sqlite
  path: gains.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, JournalConfig{Type: "sqlite", Path: "gains.db"}, cfg.Journal)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capgains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("currency: EUR\nworkers: 2\n"), 0o644))

	t.Setenv("CAPGAINS_CURRENCY", "GBP")
	t.Setenv("CAPGAINS_WORKERS", "8")
	t.Setenv("CAPGAINS_TRACE", "true")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Currency)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Trace)
}

func TestLoad_DotEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("CAPGAINS_JOURNAL_TYPE=csv\nCAPGAINS_JOURNAL_PATH=journal.csv\n"), 0o644))
	// registered for cleanup, godotenv sets them for real.
	t.Setenv("CAPGAINS_JOURNAL_TYPE", "")
	t.Setenv("CAPGAINS_JOURNAL_PATH", "")
	os.Unsetenv("CAPGAINS_JOURNAL_TYPE")
	os.Unsetenv("CAPGAINS_JOURNAL_PATH")

	cfg, err := Load("", dotenv)
	require.NoError(t, err)
	assert.Equal(t, JournalConfig{Type: "csv", Path: "journal.csv"}, cfg.Journal)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	t.Setenv("CAPGAINS_PARALLEL", "maybe")
	_, err = Load("", "")
	assert.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capgains.yaml")
	cfg := Default()
	cfg.Workers = 3
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
