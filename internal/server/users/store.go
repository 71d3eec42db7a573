// Package users is the credential store: registered accounts kept in
// memory and written through to a YAML file on every change.
package users

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/filestore"
)

// Store holds every user. All methods are safe for concurrent use; writes
// are serialized and reach the file before they return.
type Store struct {
	mu     sync.Mutex
	users  []User
	file   *filestore.File[User]
	hasher PasswordHasher
	logger logging.Logger
}

// NewStore loads file into memory. A load error means the store cannot be
// trusted and the server must not start.
func NewStore(file *filestore.File[User], hasher PasswordHasher, logger logging.Logger) (*Store, error) {
	users, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if hasher == nil {
		hasher = PlainPasswords{}
	}
	return &Store{
		users:  users,
		file:   file,
		hasher: hasher,
		logger: logger.With("module", "users"),
	}, nil
}

// Create appends a user and persists the collection. Names and emails are
// not checked for uniqueness.
func (s *Store) Create(ctx context.Context, email, name, password string) (*User, error) {
	stored, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := User{Name: name, Email: email, Password: stored}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.users[:len(s.users):len(s.users)], u)
	if err := s.file.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	s.users = next

	s.logger.Info(ctx, "user created", "username", name)
	return &u, nil
}

// ValidateLoginRequest checks an email/password pair. The returned error is
// one of ErrMissingCredentials, ErrUserNotFound or ErrBadCredentials.
func (s *Store) ValidateLoginRequest(ctx context.Context, email, password string) (*User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email != email {
			continue
		}
		if !s.hasher.Matches(u.Password, password) {
			return nil, ErrBadCredentials
		}
		found := u
		return &found, nil
	}
	return nil, ErrUserNotFound
}

// GetByUsername returns the first user called name, or common.ErrorNotFound.
func (s *Store) GetByUsername(ctx context.Context, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == name {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}

// GetAll returns a copy of every stored user in insertion order.
func (s *Store) GetAll(ctx context.Context) []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}
