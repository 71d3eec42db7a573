package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// authService is the part of services.AuthService the CLI drives.
type authService interface {
	State() models.LoginState
	Subscribe() <-chan models.LoginState
	Restore(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) (models.LoginState, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) error
	Ping(ctx context.Context) error
}

// recipeService is the part of services.RecipeService the CLI drives.
type recipeService interface {
	Add(ctx context.Context, title, body string) (*models.Recipe, error)
	List(ctx context.Context) ([]models.Recipe, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	Delete(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64) error
	Remote(ctx context.Context, all bool) ([]models.Recipe, error)
	Recover(ctx context.Context) (int, error)
	Pending(id int64) bool
	Wait()
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	auth    authService
	recipes recipeService
	reader  *bufio.Reader
	out     io.Writer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local database, builds the HTTP client and the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.SyncTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, db, logger, c.SyncTimeout)
	repos := client.NewRepositories(db)
	rs := services.NewRecipeService(apiClient, repos.Recipes, as, logger, c.SyncTimeout)

	return &App{
		config:  c,
		logger:  logger.With("module", "cli"),
		db:      db,
		auth:    as,
		recipes: rs,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores an earlier session, starts the background watchers and
// blocks in the REPL until the user exits or ctx is done. In-flight sync
// work is awaited before the database is closed.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to recipebook (type 'help' for commands)")

	restored, err := a.auth.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	}
	if restored {
		fmt.Fprintln(a.out, models.DescribeLogin(a.auth.State()))
	}

	if n, err := a.recipes.Recover(ctx); err != nil {
		a.logger.Warn(ctx, "recovering interrupted syncs failed", "error", err)
	} else if n > 0 {
		fmt.Fprintf(a.out, "%d recipe(s) were interrupted while syncing, use retry <id>\n", n)
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(wctx, a.config.OnlineCheckInterval)
	go a.watchLogin(wctx, a.auth.Subscribe())

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) close() {
	a.recipes.Wait()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error(context.Background(), "closing database failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.State().(models.LoginSuccess)
	return ok
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

// getStatus renders the REPL prompt suffix, e.g. "(alice online)".
func (a *App) getStatus() string {
	s := ""
	if st, ok := a.auth.State().(models.LoginSuccess); ok {
		s = st.Username + " "
	}
	s += string(a.Mode())
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// watchLogin logs every login transition until ctx is done.
func (a *App) watchLogin(ctx context.Context, ch <-chan models.LoginState) {
	for {
		select {
		case st := <-ch:
			a.logger.Debug(ctx, "login state changed", "state", models.DescribeLogin(st))
		case <-ctx.Done():
			return
		}
	}
}
