package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
	"gopkg.in/yaml.v3"
)

type yamlConfig struct {
	ServerURL           *string        `yaml:"server_url"`
	DBPath              *string        `yaml:"db_path"`
	SyncTimeout         *time.Duration `yaml:"sync_timeout"`
	OnlineCheckInterval *time.Duration `yaml:"online_check_interval"`
	LogLevel            *string        `yaml:"log_level"`
}

// parseYAML overlays cfg with the file named by -c/-config, if any.
func parseYAML(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var c yamlConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.ServerURL != nil {
		cfg.ServerURL = *c.ServerURL
	}
	if c.DBPath != nil {
		cfg.DBPath = *c.DBPath
	}
	if c.SyncTimeout != nil {
		cfg.SyncTimeout = *c.SyncTimeout
	}
	if c.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = *c.OnlineCheckInterval
	}
	if c.LogLevel != nil {
		cfg.LogLevel = *c.LogLevel
	}
	return nil
}
