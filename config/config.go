// Package config loads the settings of the capgains command line.
//
// Settings are read, each source overriding the previous one, from the
// defaults, an optional YAML file, and CAPGAINS_* environment variables,
// which can themselves be set in a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/etnz/capgains/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of a run.
type Config struct {
	Currency string        `yaml:"currency"`
	LogLevel string        `yaml:"log_level"`
	LogFile  string        `yaml:"log_file,omitempty"` // export the run log there
	Parallel bool          `yaml:"parallel"`
	Workers  int           `yaml:"workers"` // 0 means one per CPU
	Trace    bool          `yaml:"trace"`
	Journal  JournalConfig `yaml:"journal"`
}

// JournalConfig selects where realized sales are recorded.
type JournalConfig struct {
	Type string `yaml:"type"` // "none", "csv" or "sqlite"
	Path string `yaml:"path,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Currency: "USD",
		LogLevel: "info",
		Journal:  JournalConfig{Type: "none"},
	}
}

// Load returns the default configuration updated by the YAML file at path,
// then by the environment. If dotenv is not empty and the file exists, it is
// loaded into the environment first, without overriding variables already set.
// An empty path skips the YAML file.
func Load(path, dotenv string) (*Config, error) {
	cfg := Default()

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"CAPGAINS_CURRENCY":     &c.Currency,
		"CAPGAINS_LOG_LEVEL":    &c.LogLevel,
		"CAPGAINS_LOG_FILE":     &c.LogFile,
		"CAPGAINS_JOURNAL_TYPE": &c.Journal.Type,
		"CAPGAINS_JOURNAL_PATH": &c.Journal.Path,
	}
	for key, field := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}

	bools := map[string]*bool{
		"CAPGAINS_PARALLEL": &c.Parallel,
		"CAPGAINS_TRACE":    &c.Trace,
	}
	for key, field := range bools {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*field = b
		}
	}

	if v, ok := os.LookupEnv("CAPGAINS_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CAPGAINS_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for %s journal", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}
