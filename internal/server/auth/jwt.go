// Package auth issues and verifies bearer tokens and resolves them to
// users. Tokens are stateless HS256 JWTs; nothing is stored server-side,
// so a token stays valid until it expires no matter what the client does.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the username the token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenService signs and verifies tokens with one process-wide secret.
type TokenService struct {
	secretKey        []byte
	validityDuration time.Duration
	now              func() time.Time
}

// NewTokenService returns a service signing with secretKey. A zero
// validityDuration issues tokens without an expiry claim.
func NewTokenService(secretKey string, validityDuration time.Duration) *TokenService {
	return &TokenService{
		secretKey:        []byte(secretKey),
		validityDuration: validityDuration,
		now:              time.Now,
	}
}

func (s *TokenService) GenerateToken(username string) (string, error) {
	claims := Claims{Username: username}
	if s.validityDuration > 0 {
		now := s.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// VerifyToken returns the username carried by tokenString. ok is false for
// malformed, tampered, expired or foreign tokens; failure is an expected
// outcome, not an error.
func (s *TokenService) VerifyToken(tokenString string) (username string, ok bool) {
	if tokenString == "" {
		return "", false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Username == "" {
		return "", false
	}

	return claims.Username, true
}
