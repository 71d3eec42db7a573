package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/recipebook/internal/client/cli"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}
