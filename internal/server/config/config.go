// Package config handles configuration for the recipebook server,
// including defaults, a YAML overlay, environment variables, and
// command-line flags.
package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultSecretKey signs tokens when RECIPES_SECRET_KEY is not set.
// It is public knowledge; never rely on it outside local development.
const DefaultSecretKey = "recipes-insecure-dev-secret"

const (
	PasswordHashingPlain  = "plain"
	PasswordHashingBcrypt = "bcrypt"
)

// Config holds runtime settings for the recipebook server.
//
// Fields:
//   - Host / Port: HTTP bind address.
//   - DataDir: directory holding UsersFile and RecipesFile.
//   - InitStores: create missing store files empty instead of refusing to start.
//   - SecretKey: HMAC secret for signing JWTs (HS256).
//   - TokenValidityDuration: token lifetime; zero issues tokens without expiry.
//   - Backup: write a timestamped copy of a store file before each rewrite.
//   - BackupS3Bucket / BackupS3Prefix: optional S3 destination for the same copies.
//   - S3RootUser / S3RootPassword / S3Region / S3BaseEndpoint: S3-compatible backend settings.
//   - PasswordHashing: "plain" (compatible default) or "bcrypt".
//   - LoginRatePerMinute / LoginBurst: per-client throttle on /users/login.
//   - LogLevel: slog level name.
type Config struct {
	Host                  string
	Port                  int
	DataDir               string
	UsersFile             string
	RecipesFile           string
	InitStores            bool
	SecretKey             string
	TokenValidityDuration time.Duration
	Backup                bool
	BackupS3Bucket        string
	BackupS3Prefix        string
	S3RootUser            string
	S3RootPassword        string
	S3Region              string
	S3BaseEndpoint        string
	PasswordHashing       string
	LoginRatePerMinute    int
	LoginBurst            int
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Host = "0.0.0.0"
	c.Port = 8080
	c.DataDir = "data"
	c.UsersFile = "users.yaml"
	c.RecipesFile = "recipes.yaml"
	c.SecretKey = DefaultSecretKey
	c.TokenValidityDuration = 0
	c.Backup = true
	c.BackupS3Prefix = "recipebook"
	c.S3Region = "us-east-1"
	c.PasswordHashing = PasswordHashingPlain
	c.LoginRatePerMinute = 30
	c.LoginBurst = 10
	c.LogLevel = "info"
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

func (c *Config) RecipesPath() string {
	return filepath.Join(c.DataDir, c.RecipesFile)
}

// UsingDefaultSecret reports whether tokens are signed with DefaultSecretKey.
func (c *Config) UsingDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir must be set")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.TokenValidityDuration < 0 {
		return fmt.Errorf("token validity must not be negative")
	}
	if c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("login rate must be positive, got %d", c.LoginRatePerMinute)
	}
	if c.LoginBurst <= 0 {
		return fmt.Errorf("login burst must be positive, got %d", c.LoginBurst)
	}
	switch c.PasswordHashing {
	case PasswordHashingPlain, PasswordHashingBcrypt:
	default:
		return fmt.Errorf("unknown password hashing %q", c.PasswordHashing)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional YAML file, the environment and finally command-line
// flags. args are the command-line arguments without the program name.
func LoadConfig(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseYAML(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, getenv); err != nil {
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
