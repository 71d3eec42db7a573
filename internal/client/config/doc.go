// Package config loads runtime configuration for the recipebook client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the recipebook server
//	-db string  path to the local SQLite database
//	-t int      per-request sync timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # YAML schema
//
// Durations are written as Go duration strings:
//
//	server_url: http://127.0.0.1:8080
//	db_path: recipes.db
//	sync_timeout: 10s
//	online_check_interval: 3s
//	log_level: warn
package config
