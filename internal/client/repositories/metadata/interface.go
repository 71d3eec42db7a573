// Package metadata stores small key-value facts about the local session,
// such as the bearer token and who it belongs to.
package metadata

import (
	"context"
	"fmt"
)

// Keys of the persisted session.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyEmail    = "email"
)

// Repository is a key-value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Session is what a successful login leaves behind.
type Session struct {
	Token    string
	Username string
	Email    string
}

// SaveSession writes s under the session keys; an empty field removes its
// key. Use a repository bound to a transaction when the writes must land
// together.
func SaveSession(ctx context.Context, r Repository, s Session) error {
	for _, kv := range []struct{ key, value string }{
		{KeyToken, s.Token},
		{KeyUsername, s.Username},
		{KeyEmail, s.Email},
	} {
		var err error
		if kv.value == "" {
			err = r.Delete(ctx, kv.key)
		} else {
			err = r.Set(ctx, kv.key, []byte(kv.value))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadSession returns the stored session, or nil when no token is stored.
func LoadSession(ctx context.Context, r Repository) (*Session, error) {
	values := make(map[string]string, 3)
	for _, key := range []string{KeyToken, KeyUsername, KeyEmail} {
		v, err := r.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		values[key] = string(v)
	}

	if values[KeyToken] == "" {
		return nil, nil
	}
	return &Session{
		Token:    values[KeyToken],
		Username: values[KeyUsername],
		Email:    values[KeyEmail],
	}, nil
}
