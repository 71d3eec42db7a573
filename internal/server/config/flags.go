package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   host:port to listen on (e.g. ":8080")
//	-d string   data directory holding users.yaml and recipes.yaml
//	-s string   JWT HMAC secret key
//	-t int      token validity in minutes, 0 disables expiry
//	-b bool     write timestamped backups before every store rewrite
//	-init bool  create missing store files empty (first start)
//
// Only these flags are taken from args (see flagx.FilterArgs), so the
// config file flag and unrelated options pass through untouched.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-b", "-init"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addr := fs.String("a", "", "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.BoolVar(&config.Backup, "b", config.Backup, "backup store files before rewriting")
	fs.BoolVar(&config.InitStores, "init", config.InitStores, "create missing store files")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *addr != "" {
		host, port, err := net.SplitHostPort(*addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", *addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in %q: %w", *addr, err)
		}
		config.Host = host
		config.Port = p
	}

	config.TokenValidityDuration = time.Duration(*validity) * time.Minute
	return nil
}
