// Package services contains the application services of the recipebook
// client. This file holds the login state machine.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/dbx"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// ErrInvalidTransition is returned when an operation is not allowed from
// the current login state.
var ErrInvalidTransition = errors.New("invalid login state transition")

const subscriberBuffer = 8

// AuthService owns the single login state of a client session:
//
//	Empty   --Login-->  Pending --ok-->   Success
//	Failure --Login-->  Pending --fail--> Failure
//	Success --Logout--> Empty
//
// Transitions are the only way the state changes.
type AuthService struct {
	client  client.Client
	db      *sql.DB
	meta    metadata.Repository
	logger  logging.Logger
	timeout time.Duration

	mu    sync.Mutex
	state models.LoginState
	subs  []chan models.LoginState
}

// NewAuthService starts in LoginEmpty. timeout bounds the login call; zero
// leaves it to ctx.
func NewAuthService(c client.Client, db *sql.DB, logger logging.Logger, timeout time.Duration) *AuthService {
	return &AuthService{
		client:  c,
		db:      db,
		meta:    metadata.NewSQLiteRepository(db),
		logger:  logger.With("module", "auth"),
		timeout: timeout,
		state:   models.LoginEmpty{},
	}
}

func (a *AuthService) State() models.LoginState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe returns a channel receiving every later transition. Sends never
// block: a subscriber that falls behind misses intermediate states.
func (a *AuthService) Subscribe() <-chan models.LoginState {
	ch := make(chan models.LoginState, subscriberBuffer)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, ch)
	return ch
}

// setState must be called with mu held.
func (a *AuthService) setState(s models.LoginState) {
	a.state = s
	for _, ch := range a.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Restore moves Empty to Success when a token from an earlier session is
// stored locally. The token is not checked against the server; a stale one
// surfaces as an unauthorized sync error.
func (a *AuthService) Restore(ctx context.Context) (bool, error) {
	sess, err := metadata.LoadSession(ctx, a.meta)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.state.(models.LoginEmpty); !ok {
		return false, ErrInvalidTransition
	}
	a.client.SetToken(sess.Token)
	a.setState(models.LoginSuccess{Username: sess.Username, Email: sess.Email})
	a.logger.Info(ctx, "session restored", "username", sess.Username)
	return true, nil
}

// Login is allowed from Empty and Failure. It always ends in Success or
// Failure and returns the resulting state. A failed login is not an error;
// the error return is reserved for invalid transitions.
func (a *AuthService) Login(ctx context.Context, email, password string) (models.LoginState, error) {
	a.mu.Lock()
	switch a.state.(type) {
	case models.LoginEmpty, models.LoginFailure:
	case models.LoginPending, models.LoginSuccess:
		a.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	a.setState(models.LoginPending{})
	a.mu.Unlock()

	next := a.login(ctx, email, password)

	a.mu.Lock()
	a.setState(next)
	a.mu.Unlock()
	return next, nil
}

func (a *AuthService) login(ctx context.Context, email, password string) models.LoginState {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.logger.Warn(ctx, "login failed", "email", email, "error", err)
		return models.LoginFailure{Err: client.MapError(err)}
	}

	if err := a.saveSession(ctx, res); err != nil {
		a.logger.Error(ctx, "session saving failed", "error", err)
		return models.LoginFailure{Err: models.NetworkUnknown}
	}

	a.client.SetToken(res.Token)
	a.logger.Info(ctx, "logged in", "username", res.Username)
	return models.LoginSuccess{Username: res.Username, Email: res.Email}
}

func (a *AuthService) saveSession(ctx context.Context, res client.LoginResult) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.SaveSession(ctx, metadata.NewSQLiteRepository(tx), metadata.Session{
			Token:    res.Token,
			Username: res.Username,
			Email:    res.Email,
		})
	})
}

// Logout is allowed from Success only. The token is forgotten locally;
// the server keeps no session to end.
func (a *AuthService) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state.(type) {
	case models.LoginSuccess:
	case models.LoginEmpty, models.LoginPending, models.LoginFailure:
		return ErrInvalidTransition
	}

	if err := a.meta.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.client.SetToken("")
	a.setState(models.LoginEmpty{})
	a.logger.Info(ctx, "logged out")
	return nil
}

// Register creates an account on the server. It does not log in.
func (a *AuthService) Register(ctx context.Context, name, email, password string) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.client.Register(ctx, name, email, password)
}

// Ping proxies a liveness check to the server.
func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
