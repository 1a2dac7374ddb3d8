// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultPort      = 5000
	DefaultStore     = "json"
	DefaultDataFile  = "data/todos.json"
	DefaultSQLite    = "data/todos.db"
	DefaultUploadDir = "uploads"
	DefaultLogLevel  = "info"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds the full server configuration.
type Config struct {
	Port      int    `toml:"port"`
	Store     string `toml:"store"`      // json or sqlite
	DataFile  string `toml:"data_file"`  // json backend
	SQLite    string `toml:"sqlite"`     // sqlite backend
	UploadDir string `toml:"upload_dir"`
	LogLevel  string `toml:"log_level"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Store:     DefaultStore,
		DataFile:  DefaultDataFile,
		SQLite:    DefaultSQLite,
		UploadDir: DefaultUploadDir,
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads configuration from the given TOML file, falling back to
// defaults for anything unset, then applies environment overrides. A
// missing file is not an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from TODOFILE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("TODOFILE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("TODOFILE_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("TODOFILE_DATA_FILE"); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv("TODOFILE_SQLITE"); v != "" {
		c.SQLite = v
	}
	if v := os.Getenv("TODOFILE_UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("TODOFILE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Store != StoreJSON && c.Store != StoreSQLite {
		return fmt.Errorf("invalid store backend %q: must be %q or %q", c.Store, StoreJSON, StoreSQLite)
	}
	return nil
}
