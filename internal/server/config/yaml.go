package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors Config for decoding. Pointer fields distinguish
// "absent" from "zero", so a partial file only overrides what it names.
// yaml.v3 decodes strings such as "15m" straight into time.Duration.
type yamlConfig struct {
	Host                  *string        `yaml:"host"`
	Port                  *int           `yaml:"port"`
	DataDir               *string        `yaml:"data_dir"`
	UsersFile             *string        `yaml:"users_file"`
	RecipesFile           *string        `yaml:"recipes_file"`
	InitStores            *bool          `yaml:"init_stores"`
	SecretKey             *string        `yaml:"secret_key"`
	TokenValidityDuration *time.Duration `yaml:"token_validity_duration"`
	Backup                *bool          `yaml:"backup"`
	BackupS3Bucket        *string        `yaml:"backup_s3_bucket"`
	BackupS3Prefix        *string        `yaml:"backup_s3_prefix"`
	S3RootUser            *string        `yaml:"s3_root_user"`
	S3RootPassword        *string        `yaml:"s3_root_password"`
	S3Region              *string        `yaml:"s3_region"`
	S3BaseEndpoint        *string        `yaml:"s3_base_endpoint"`
	PasswordHashing       *string        `yaml:"password_hashing"`
	LoginRatePerMinute    *int           `yaml:"login_rate_per_minute"`
	LoginBurst            *int           `yaml:"login_burst"`
	LogLevel              *string        `yaml:"log_level"`
}

// parseYAML loads the file named by -c/-config, if any, and copies every
// field it sets into config. A missing or malformed file is an error.
func parseYAML(config *Config, args []string) error {
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

	setIf(&config.Host, c.Host)
	setIf(&config.Port, c.Port)
	setIf(&config.DataDir, c.DataDir)
	setIf(&config.UsersFile, c.UsersFile)
	setIf(&config.RecipesFile, c.RecipesFile)
	setIf(&config.InitStores, c.InitStores)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.TokenValidityDuration, c.TokenValidityDuration)
	setIf(&config.Backup, c.Backup)
	setIf(&config.BackupS3Bucket, c.BackupS3Bucket)
	setIf(&config.BackupS3Prefix, c.BackupS3Prefix)
	setIf(&config.S3RootUser, c.S3RootUser)
	setIf(&config.S3RootPassword, c.S3RootPassword)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setIf(&config.PasswordHashing, c.PasswordHashing)
	setIf(&config.LoginRatePerMinute, c.LoginRatePerMinute)
	setIf(&config.LoginBurst, c.LoginBurst)
	setIf(&config.LogLevel, c.LogLevel)

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
