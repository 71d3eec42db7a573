package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the recipebook client.
type Config struct {
	ServerURL           string
	DBPath              string
	SyncTimeout         time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with defaults suitable for a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DBPath = "recipes.db"
	c.SyncTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url must be set")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path must be set")
	}
	if c.SyncTimeout <= 0 {
		return fmt.Errorf("sync timeout must be positive")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// YAML (if present) and command-line flags. args exclude the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseYAML(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
