package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

type contextKey string

var userContextKey = contextKey("user")

// Authenticator resolves a bearer token to a user, or nil.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) *users.User
}

// RequireUser rejects requests whose bearer token does not resolve to a
// stored user. Every failure gets the same 401 body.
func RequireUser(auth Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := auth.Authenticate(r.Context(), BearerToken(r))
			if u == nil {
				WriteError(w, http.StatusUnauthorized, common.UnauthorizedMessage)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
		})
	}
}

// BearerToken returns the token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
}

// UserFromContext returns the user injected by RequireUser.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(userContextKey).(*users.User)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}
