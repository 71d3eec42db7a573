package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

func newAuth(t *testing.T, fc *fakeClient) *AuthService {
	t.Helper()
	return NewAuthService(fc, setupDB(t), logging.Discard(), time.Second)
}

func drain(ch <-chan models.LoginState) []models.LoginState {
	var out []models.LoginState
	for {
		select {
		case s := <-ch:
			out = append(out, s)
		default:
			return out
		}
	}
}

func TestAuth_StartsEmpty(t *testing.T) {
	a := newAuth(t, &fakeClient{})
	assert.Equal(t, models.LoginEmpty{}, a.State())
}

func TestAuth_LoginSuccess(t *testing.T) {
	fc := &fakeClient{LoginRet: client.LoginResult{Email: "j@example.com", Username: "J", Token: "tok"}}
	a := newAuth(t, fc)
	events := a.Subscribe()

	st, err := a.Login(context.Background(), "j@example.com", "pw")
	require.NoError(t, err)

	want := models.LoginSuccess{Username: "J", Email: "j@example.com"}
	assert.Equal(t, want, st)
	assert.Equal(t, want, a.State())
	assert.Equal(t, []models.LoginState{models.LoginPending{}, want}, drain(events))
	assert.Equal(t, "tok", fc.token())

	tok, err := a.meta.Get(context.Background(), metadata.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok"), tok)
}

func TestAuth_LoginFailureThenRetry(t *testing.T) {
	fc := &fakeClient{LoginErr: &client.APIError{Status: 401, Message: "Bad credentials"}}
	a := newAuth(t, fc)
	events := a.Subscribe()

	st, err := a.Login(context.Background(), "j@example.com", "bad")
	require.NoError(t, err)
	assert.Equal(t, models.LoginFailure{Err: models.NetworkUnauthorized}, st)
	assert.Equal(t, "", fc.token())

	fc.LoginErr = nil
	fc.LoginRet = client.LoginResult{Username: "J", Token: "tok"}
	st, err = a.Login(context.Background(), "j@example.com", "pw")
	require.NoError(t, err)
	assert.IsType(t, models.LoginSuccess{}, st)

	assert.Equal(t, []models.LoginState{
		models.LoginPending{},
		models.LoginFailure{Err: models.NetworkUnauthorized},
		models.LoginPending{},
		models.LoginSuccess{Username: "J"},
	}, drain(events))
}

func TestAuth_LoginFromSuccessIsInvalid(t *testing.T) {
	fc := &fakeClient{LoginRet: client.LoginResult{Username: "J", Token: "tok"}}
	a := newAuth(t, fc)
	_, err := a.Login(context.Background(), "e", "p")
	require.NoError(t, err)

	_, err = a.Login(context.Background(), "e", "p")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 1, fc.LoginCalls)
}

func TestAuth_LoginWhilePendingIsInvalid(t *testing.T) {
	fc := &fakeClient{LoginBlock: make(chan struct{}), LoginRet: client.LoginResult{Username: "J", Token: "t"}}
	a := newAuth(t, fc)
	events := a.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = a.Login(context.Background(), "e", "p")
	}()

	require.Equal(t, models.LoginPending{}, <-events)
	_, err := a.Login(context.Background(), "e", "p")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, a.Logout(context.Background()), ErrInvalidTransition)

	close(fc.LoginBlock)
	<-done
	assert.IsType(t, models.LoginSuccess{}, a.State())
}

func TestAuth_LoginTimeout(t *testing.T) {
	fc := &fakeClient{LoginBlock: make(chan struct{})}
	a := NewAuthService(fc, setupDB(t), logging.Discard(), 20*time.Millisecond)

	st, err := a.Login(context.Background(), "e", "p")
	require.NoError(t, err)
	assert.Equal(t, models.LoginFailure{Err: models.NetworkNoConnectivity}, st)
}

func TestAuth_Logout(t *testing.T) {
	fc := &fakeClient{LoginRet: client.LoginResult{Username: "J", Token: "tok"}}
	a := newAuth(t, fc)
	ctx := context.Background()

	assert.ErrorIs(t, a.Logout(ctx), ErrInvalidTransition)

	_, err := a.Login(ctx, "e", "p")
	require.NoError(t, err)
	require.NoError(t, a.Logout(ctx))

	assert.Equal(t, models.LoginEmpty{}, a.State())
	assert.Equal(t, "", fc.token())
	tok, err := a.meta.Get(ctx, metadata.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestAuth_Restore(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first := NewAuthService(&fakeClient{LoginRet: client.LoginResult{Username: "J", Email: "j@example.com", Token: "tok"}},
		db, logging.Discard(), time.Second)
	_, err := first.Login(ctx, "j@example.com", "pw")
	require.NoError(t, err)

	fc := &fakeClient{}
	second := NewAuthService(fc, db, logging.Discard(), time.Second)
	ok, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.LoginSuccess{Username: "J", Email: "j@example.com"}, second.State())
	assert.Equal(t, "tok", fc.token())
}

func TestAuth_RestoreWithoutSession(t *testing.T) {
	a := newAuth(t, &fakeClient{})
	ok, err := a.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.LoginEmpty{}, a.State())
}

func TestAuth_SlowSubscriberDoesNotBlock(t *testing.T) {
	fc := &fakeClient{LoginErr: &client.APIError{Status: 500}}
	a := newAuth(t, fc)
	_ = a.Subscribe()

	for i := 0; i < subscriberBuffer*2; i++ {
		st, err := a.Login(context.Background(), "e", "p")
		require.NoError(t, err)
		require.Equal(t, models.LoginFailure{Err: models.NetworkServerError}, st)
	}
}
