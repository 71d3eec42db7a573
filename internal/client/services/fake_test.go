package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	mu sync.Mutex

	LoginRet client.LoginResult
	LoginErr error
	// LoginBlock, when set, is waited on before Login returns.
	LoginBlock chan struct{}

	RegisterErr error
	PingErr     error

	// PutFn overrides PutRecipe when set.
	PutFn     func(ctx context.Context, r models.Recipe) (models.Recipe, error)
	DeleteErr error
	ListRet   []models.Recipe

	Token       string
	LoginCalls  int
	PutCalls    []int64
	DeleteCalls []int64
	ListAll     []bool
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (client.LoginResult, error) {
	f.mu.Lock()
	f.LoginCalls++
	block := f.LoginBlock
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return client.LoginResult{}, ctx.Err()
		}
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(context.Context, string, string, string) error {
	return f.RegisterErr
}

func (f *fakeClient) ListRecipes(_ context.Context, all bool) ([]models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListAll = append(f.ListAll, all)
	return f.ListRet, nil
}

func (f *fakeClient) PutRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	f.mu.Lock()
	f.PutCalls = append(f.PutCalls, r.ID)
	fn := f.PutFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, r)
	}
	return r, nil
}

func (f *fakeClient) DeleteRecipe(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	return f.DeleteErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *fakeClient) token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
