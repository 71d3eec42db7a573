package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the server
//	-db string  local database path
//	-t int      sync timeout in seconds
//	-i int      online check interval in seconds
//
// args are filtered with flagx.FilterArgs so the config file flag passes
// through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-db", "-t", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base url")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "local database path")
	timeout := fs.Int("t", int(cfg.SyncTimeout.Seconds()), "sync timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.SyncTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
