package auth

import (
	"context"

	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

// TokenVerifier recovers a username from a bearer token.
type TokenVerifier interface {
	VerifyToken(token string) (string, bool)
}

// UserFinder resolves a username to a stored user.
type UserFinder interface {
	GetByUsername(ctx context.Context, name string) (*users.User, error)
}

// Gate is the single authorization check used by protected routes. Every
// call verifies the token and reads the user store again; nothing is cached.
type Gate struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewGate(tokens TokenVerifier, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate returns the user token belongs to, or nil when the token is
// empty, does not verify, or names a user that does not exist.
func (g *Gate) Authenticate(ctx context.Context, token string) *users.User {
	if token == "" {
		return nil
	}

	username, ok := g.tokens.VerifyToken(token)
	if !ok {
		return nil
	}

	u, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return nil
	}
	return u
}
