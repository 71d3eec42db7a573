package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server"
	"github.com/dmitrijs2005/recipebook/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return err
	}

	return app.Run(ctx)
}
