package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/recipes"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

type fakeAuth struct {
	mu    sync.Mutex
	state models.LoginState

	loginNext  models.LoginState
	loginErr   error
	gotEmail   string
	gotPass    string
	registered []string
	regErr     error
	logoutErr  error
	pingErr    error
	pings      int
}

func (f *fakeAuth) State() models.LoginState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == nil {
		return models.LoginEmpty{}
	}
	return f.state
}

func (f *fakeAuth) Subscribe() <-chan models.LoginState { return make(chan models.LoginState) }

func (f *fakeAuth) Restore(context.Context) (bool, error) { return false, nil }

func (f *fakeAuth) Login(_ context.Context, email, password string) (models.LoginState, error) {
	f.gotEmail, f.gotPass = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.mu.Lock()
	f.state = f.loginNext
	f.mu.Unlock()
	return f.loginNext, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.mu.Lock()
	f.state = models.LoginEmpty{}
	f.mu.Unlock()
	return nil
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) error {
	f.registered = []string{name, email, password}
	return f.regErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

type fakeRecipes struct {
	store    map[int64]models.Recipe
	order    []int64
	addErr   error
	retryErr error
	remote   []models.Recipe
	remErr   error
	remAll   bool
	pending  map[int64]bool
	deleted  []int64
	retried  []int64
	waited   bool
}

func newFakeRecipes(list ...models.Recipe) *fakeRecipes {
	f := &fakeRecipes{store: map[int64]models.Recipe{}, pending: map[int64]bool{}}
	for _, r := range list {
		f.store[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func (f *fakeRecipes) Add(_ context.Context, title, body string) (*models.Recipe, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	r := models.Recipe{ID: int64(len(f.order) + 1), Title: title, Body: body, SyncStatus: models.NotSynced}
	f.store[r.ID] = r
	f.order = append(f.order, r.ID)
	return &r, nil
}

func (f *fakeRecipes) List(context.Context) ([]models.Recipe, error) {
	out := make([]models.Recipe, 0, len(f.order))
	for _, id := range f.order {
		if r, ok := f.store[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipes) Get(_ context.Context, id int64) (*models.Recipe, error) {
	r, ok := f.store[id]
	if !ok {
		return nil, recipes.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRecipes) Delete(_ context.Context, id int64) error {
	if _, ok := f.store[id]; !ok {
		return recipes.ErrNotFound
	}
	delete(f.store, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecipes) Retry(_ context.Context, id int64) error {
	if _, ok := f.store[id]; !ok {
		return recipes.ErrNotFound
	}
	if f.retryErr != nil {
		return f.retryErr
	}
	f.retried = append(f.retried, id)
	return nil
}

func (f *fakeRecipes) Remote(_ context.Context, all bool) ([]models.Recipe, error) {
	f.remAll = all
	return f.remote, f.remErr
}

func (f *fakeRecipes) Recover(context.Context) (int, error) { return 0, nil }

func (f *fakeRecipes) Pending(id int64) bool { return f.pending[id] }
func (f *fakeRecipes) Wait()                 { f.waited = true }

func newTestApp(auth *fakeAuth, rs *fakeRecipes, input ...string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		logger:  logging.Discard(),
		auth:    auth,
		recipes: rs,
		reader:  bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:     &out,
	}, &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestLogin_Success(t *testing.T) {
	stubPassword(t, "pw")
	auth := &fakeAuth{loginNext: models.LoginSuccess{Username: "alice", Email: "a@x"}}
	app, out := newTestApp(auth, newFakeRecipes(), "a@x")

	require.NoError(t, app.Login(context.Background()))
	assert.Equal(t, "a@x", auth.gotEmail)
	assert.Equal(t, "pw", auth.gotPass)
	assert.Contains(t, out.String(), "logged in as alice")
	assert.True(t, app.isLoggedIn())
}

func TestLogin_FailureReturnsNetworkError(t *testing.T) {
	stubPassword(t, "bad")
	auth := &fakeAuth{loginNext: models.LoginFailure{Err: models.NetworkUnauthorized}}
	app, out := newTestApp(auth, newFakeRecipes(), "a@x")

	err := app.Login(context.Background())
	require.ErrorIs(t, err, models.NetworkUnauthorized)
	assert.Contains(t, out.String(), "login failed: "+models.NetworkUnauthorized.Message())
}

func TestLogin_AlreadyLoggedIn(t *testing.T) {
	auth := &fakeAuth{state: models.LoginSuccess{Username: "alice"}}
	app, out := newTestApp(auth, newFakeRecipes())

	err := app.Login(context.Background())
	require.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.Contains(t, out.String(), "Already logged in")
	assert.Empty(t, auth.gotEmail)
}

func TestRegister(t *testing.T) {
	stubPassword(t, "pw")

	auth := &fakeAuth{}
	app, out := newTestApp(auth, newFakeRecipes(), "Alice", "a@x")
	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, []string{"Alice", "a@x", "pw"}, auth.registered)
	assert.Contains(t, out.String(), "User created")

	auth = &fakeAuth{regErr: &client.APIError{Status: 400, Message: "Email already registered"}}
	app, out = newTestApp(auth, newFakeRecipes(), "Alice", "a@x")
	require.Error(t, app.Register(context.Background()))
	assert.Contains(t, out.String(), "Registration failed: Email already registered")

	auth = &fakeAuth{}
	app, out = newTestApp(auth, newFakeRecipes(), "", "a@x")
	require.Error(t, app.Register(context.Background()))
	assert.Nil(t, auth.registered)
	assert.Contains(t, out.String(), "required")
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{state: models.LoginSuccess{Username: "alice"}}
	app, out := newTestApp(auth, newFakeRecipes())
	require.NoError(t, app.Logout(context.Background()))
	assert.Contains(t, out.String(), "Logged out")
	assert.False(t, app.isLoggedIn())

	auth = &fakeAuth{logoutErr: services.ErrInvalidTransition}
	app, out = newTestApp(auth, newFakeRecipes())
	require.Error(t, app.Logout(context.Background()))
	assert.Contains(t, out.String(), "Not logged in")
}

func TestAdd(t *testing.T) {
	rs := newFakeRecipes()
	app, out := newTestApp(&fakeAuth{}, rs, "Pancakes", "flour", "milk", "")

	require.NoError(t, app.Add(context.Background()))
	require.Len(t, rs.order, 1)
	assert.Equal(t, "Pancakes", rs.store[1].Title)
	assert.Equal(t, "flour\nmilk", rs.store[1].Body)
	assert.Contains(t, out.String(), "Recipe #1 saved locally")
}

func TestAdd_EmptyTitle(t *testing.T) {
	rs := newFakeRecipes()
	rs.addErr = services.ErrEmptyTitle
	app, out := newTestApp(&fakeAuth{}, rs, "", "")

	require.ErrorIs(t, app.Add(context.Background()), services.ErrEmptyTitle)
	assert.Contains(t, out.String(), "Title can't be empty")
}

func TestList_Local(t *testing.T) {
	msg := "No connection to the server"
	rs := newFakeRecipes(
		models.Recipe{ID: 1, Title: "Soup", SyncStatus: models.Synced},
		models.Recipe{ID: 2, Title: "Cake", SyncStatus: models.SyncError, SyncErrorMessage: &msg},
		models.Recipe{ID: 3, Title: "Tea", SyncStatus: models.Syncing},
	)
	rs.pending[3] = true
	app, out := newTestApp(&fakeAuth{}, rs)

	require.NoError(t, app.List(context.Background(), nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "SYNCED")
	assert.Contains(t, lines[2], msg)
	assert.Contains(t, lines[3], "pending")
}

func TestList_Empty(t *testing.T) {
	app, out := newTestApp(&fakeAuth{}, newFakeRecipes())
	require.NoError(t, app.List(context.Background(), nil))
	assert.Contains(t, out.String(), "No recipes yet")
}

func TestList_Remote(t *testing.T) {
	rs := newFakeRecipes()
	rs.remote = []models.Recipe{{ID: 7, Title: "Bread", Owner: "bob"}}
	app, out := newTestApp(&fakeAuth{}, rs)

	require.NoError(t, app.List(context.Background(), []string{"remote", "all"}))
	assert.True(t, rs.remAll)
	assert.Contains(t, out.String(), "bob")

	rs.remErr = models.NetworkNoConnectivity
	out.Reset()
	require.Error(t, app.List(context.Background(), []string{"remote"}))
	assert.False(t, rs.remAll)
	assert.Contains(t, out.String(), models.NetworkNoConnectivity.Message())
}

func TestShow(t *testing.T) {
	at := int64(1_700_000_000_000)
	rs := newFakeRecipes(models.Recipe{ID: 4, Title: "Stew", Body: "beef", Owner: "alice",
		Timestamp: at, SyncStatus: models.Synced, LastSyncTimestamp: &at})
	app, out := newTestApp(&fakeAuth{}, rs)

	require.NoError(t, app.Show(context.Background(), []string{"4"}))
	s := out.String()
	assert.Contains(t, s, "#4 Stew")
	assert.Contains(t, s, "owner: alice")
	assert.Contains(t, s, "last sync:")
	assert.Contains(t, s, "beef")

	out.Reset()
	require.ErrorIs(t, app.Show(context.Background(), []string{"5"}), recipes.ErrNotFound)
	assert.Contains(t, out.String(), "Recipe #5 not found")
}

func TestDelete(t *testing.T) {
	rs := newFakeRecipes(models.Recipe{ID: 1, Title: "Soup"})
	app, out := newTestApp(&fakeAuth{}, rs)

	require.NoError(t, app.Delete(context.Background(), []string{"1"}))
	assert.Equal(t, []int64{1}, rs.deleted)
	assert.Contains(t, out.String(), "Recipe #1 deleted")

	out.Reset()
	require.Error(t, app.Delete(context.Background(), []string{"1"}))
	assert.Contains(t, out.String(), "not found")
}

func TestIDArguments(t *testing.T) {
	app, out := newTestApp(&fakeAuth{}, newFakeRecipes())

	require.Error(t, app.Delete(context.Background(), nil))
	assert.Contains(t, out.String(), "Usage: delete <id>")

	out.Reset()
	require.Error(t, app.Retry(context.Background(), []string{"abc"}))
	assert.Contains(t, out.String(), "Recipe id must be an integer")
}

func TestRetry(t *testing.T) {
	rs := newFakeRecipes(models.Recipe{ID: 2, Title: "Cake", SyncStatus: models.SyncError})
	app, out := newTestApp(&fakeAuth{}, rs)

	require.NoError(t, app.Retry(context.Background(), []string{"2"}))
	assert.Equal(t, []int64{2}, rs.retried)
	assert.Contains(t, out.String(), "queued")

	rs.retryErr = services.ErrNotRetryable
	out.Reset()
	require.ErrorIs(t, app.Retry(context.Background(), []string{"2"}), services.ErrNotRetryable)
	assert.Contains(t, out.String(), "already synced or syncing")
}

func TestStatus(t *testing.T) {
	rs := newFakeRecipes(
		models.Recipe{ID: 1, SyncStatus: models.Synced},
		models.Recipe{ID: 2, SyncStatus: models.SyncError},
	)
	app, out := newTestApp(&fakeAuth{state: models.LoginSuccess{Username: "alice"}}, rs)
	app.setMode(ModeOnline)

	require.NoError(t, app.Status(context.Background()))
	s := out.String()
	assert.Contains(t, s, "logged in as alice")
	assert.Contains(t, s, "server: online")
	assert.Contains(t, s, "recipes: 2 (SYNCED 1, SYNCING 0, NOT_SYNCED 0, SYNC_ERROR 1)")
}

func TestGetStatus(t *testing.T) {
	auth := &fakeAuth{}
	app, _ := newTestApp(auth, newFakeRecipes())
	assert.Equal(t, "", app.getStatus())

	app.setMode(ModeOffline)
	assert.Equal(t, "(offline)", app.getStatus())

	auth.state = models.LoginSuccess{Username: "alice"}
	app.setMode(ModeOnline)
	assert.Equal(t, "(alice online)", app.getStatus())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	auth := &fakeAuth{pingErr: errors.New("down")}
	app, _ := newTestApp(auth, newFakeRecipes())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.Mode() == ModeOffline }, time.Second, time.Millisecond)

	auth.mu.Lock()
	auth.pingErr = nil
	auth.mu.Unlock()
	require.Eventually(t, func() bool { return app.Mode() == ModeOnline }, time.Second, time.Millisecond)

	cancel()
	<-done
}
