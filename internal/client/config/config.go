// Package config loads the Tea Taster CLI configuration. Values are layered:
// defaults, then an optional JSON file, then command-line flags, with later
// sources taking precedence.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Tea Taster CLI.
//
// Fields:
//   - ServerAddr: base URL of the backend REST API.
//   - DataDir: directory holding the vault files and the local cache database.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerAddr          string
	DataDir             string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:8080"
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.DataDir = filepath.Join(home, ".teataster")
	c.OnlineCheckInterval = 3 * time.Second
}

// VaultDir is where the session vault keeps its files.
func (c *Config) VaultDir() string {
	return filepath.Join(c.DataDir, "vault")
}

// DatabasePath is the local cache SQLite file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "teataster.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
