// Package server wires the recipebook backend together: it loads both
// stores, builds the token service and the HTTP surface, and runs the HTTP
// server until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/auth"
	"github.com/dmitrijs2005/recipebook/internal/server/config"
	"github.com/dmitrijs2005/recipebook/internal/server/filestore"
	"github.com/dmitrijs2005/recipebook/internal/server/metrics"
	"github.com/dmitrijs2005/recipebook/internal/server/middleware"
	"github.com/dmitrijs2005/recipebook/internal/server/recipes"
	"github.com/dmitrijs2005/recipebook/internal/server/rest"
	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	users   *users.Store
	recipes *recipes.Store
	limiter *middleware.RateLimiter
	handler http.Handler
}

// NewApp loads both stores and builds the router. Any error here means the
// server must not start.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if cfg.UsingDefaultSecret() {
		logger.Warn(ctx, "RECIPES_SECRET_KEY is not set, signing tokens with the insecure default secret")
	}

	backups, err := buildBackups(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := filestore.Options{
		Backups:       backups,
		Logger:        logger.With("module", "filestore"),
		CreateMissing: cfg.InitStores,
	}

	var hasher users.PasswordHasher = users.PlainPasswords{}
	if cfg.PasswordHashing == config.PasswordHashingBcrypt {
		hasher = users.BcryptPasswords{}
	}

	us, err := users.NewStore(filestore.New[users.User](cfg.UsersPath(), opts), hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("users store init error: %w", err)
	}
	rs, err := recipes.NewStore(filestore.New[recipes.Recipe](cfg.RecipesPath(), opts), logger)
	if err != nil {
		return nil, fmt.Errorf("recipes store init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	tokens := auth.NewTokenService(cfg.SecretKey, cfg.TokenValidityDuration)
	limiter := middleware.NewRateLimiter(
		middleware.PerMinute(cfg.LoginRatePerMinute, cfg.LoginBurst),
		logger.With("module", "ratelimit"),
		collector,
	)

	handler := rest.NewRouter(&rest.RouterDeps{
		Logger:       logger,
		Metrics:      collector,
		Gatherer:     reg,
		Users:        us,
		Recipes:      rs,
		Tokens:       tokens,
		Gate:         auth.NewGate(tokens, us),
		LoginLimiter: limiter,
	})

	return &App{
		config:  cfg,
		logger:  logger,
		users:   us,
		recipes: rs,
		limiter: limiter,
		handler: handler,
	}, nil
}

func buildBackups(ctx context.Context, cfg *config.Config) ([]filestore.Backup, error) {
	var backups []filestore.Backup
	if cfg.Backup {
		backups = append(backups, filestore.NewLocalBackup(cfg.DataDir))
	}
	if cfg.BackupS3Bucket != "" {
		b, err := filestore.NewS3Backup(ctx, filestore.S3Config{
			Bucket:       cfg.BackupS3Bucket,
			Prefix:       cfg.BackupS3Prefix,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 backup init error: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, nil
}

// Handler exposes the router, mainly for tests.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run listens on the configured address and serves until ctx is cancelled
// or the process receives SIGINT, SIGTERM or SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Addr(), err)
	}
	return app.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln and shuts it down gracefully once ctx is
// done.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	defer app.limiter.Stop()

	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String(),
			"users", len(app.users.GetAll(ctx)), "recipes", app.recipes.Len())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
