package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variables understood by the server.
const (
	EnvSecretKey       = "RECIPES_SECRET_KEY"
	EnvHost            = "RECIPES_HOST"
	EnvPort            = "RECIPES_PORT"
	EnvDataDir         = "RECIPES_DATA_DIR"
	EnvBackup          = "RECIPES_BACKUP"
	EnvInitStores      = "RECIPES_INIT_STORES"
	EnvBackupS3Bucket  = "RECIPES_BACKUP_S3_BUCKET"
	EnvTokenTTL        = "RECIPES_TOKEN_TTL"
	EnvPasswordHashing = "RECIPES_PASSWORD_HASHING"
	EnvLogLevel        = "RECIPES_LOG_LEVEL"
)

// parseEnv overlays values from the environment. Empty variables are
// ignored; malformed numbers, booleans or durations are errors.
func parseEnv(config *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	if v := getenv(EnvSecretKey); v != "" {
		config.SecretKey = v
	}
	if v := getenv(EnvHost); v != "" {
		config.Host = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		config.Port = port
	}
	if v := getenv(EnvDataDir); v != "" {
		config.DataDir = v
	}
	if v := getenv(EnvBackup); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBackup, err)
		}
		config.Backup = b
	}
	if v := getenv(EnvInitStores); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInitStores, err)
		}
		config.InitStores = b
	}
	if v := getenv(EnvBackupS3Bucket); v != "" {
		config.BackupS3Bucket = v
	}
	if v := getenv(EnvTokenTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenTTL, err)
		}
		config.TokenValidityDuration = d
	}
	if v := getenv(EnvPasswordHashing); v != "" {
		config.PasswordHashing = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	return nil
}
