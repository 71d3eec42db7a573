package users

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks
// candidates against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, candidate string) bool
}

// PlainPasswords stores passwords verbatim. It exists for compatibility
// with users.yaml files written by earlier deployments; new deployments
// should switch to BcryptPasswords.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) {
	return password, nil
}

func (PlainPasswords) Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptPasswords stores bcrypt hashes.
type BcryptPasswords struct {
	Cost int
}

func (b BcryptPasswords) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (BcryptPasswords) Matches(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}
