// Package recipes is the record store: every user's recipes held in one
// in-memory list and written through to a YAML file on each change.
package recipes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/filestore"
	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

// Store owns the recipe list. One mutex serializes every read-modify-write
// so concurrent requests can neither lose updates nor interleave file
// writes.
type Store struct {
	mu      sync.Mutex
	recipes []Recipe
	file    *filestore.File[Recipe]
	logger  logging.Logger
	now     func() time.Time
}

// NewStore loads file into memory. A load error is fatal for the server.
func NewStore(file *filestore.File[Recipe], logger logging.Logger) (*Store, error) {
	recipes, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	return &Store{
		recipes: recipes,
		file:    file,
		logger:  logger.With("module", "recipes"),
		now:     time.Now,
	}, nil
}

// Put validates req, assigns an id when none was given, stamps the owner
// and persists the new recipe. Nothing changes unless the whole operation
// succeeds.
func (s *Store) Put(ctx context.Context, owner users.User, req PutRequest) (*Recipe, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	if req.ID != nil {
		id = *req.ID
		if s.indexOf(id) >= 0 {
			return nil, &IDConflictError{ID: id}
		}
	} else {
		id = s.nextID()
	}

	ts := s.now().UnixMilli()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	r := Recipe{
		ID:        id,
		Title:     req.Title,
		Body:      req.Body,
		Timestamp: ts,
		Owner:     owner.Name,
	}

	next := append(s.recipes[:len(s.recipes):len(s.recipes)], r)
	if err := s.file.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("error storing recipe: %w", err)
	}
	s.recipes = next

	s.logger.Info(ctx, "recipe stored", "id", id, "owner", owner.Name)
	return &r, nil
}

// Get returns every recipe when all is set, otherwise only owner's. Order
// is insertion order.
func (s *Store) Get(ctx context.Context, owner users.User, all bool) []Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if all || r.Owner == owner.Name {
			out = append(out, r)
		}
	}
	return out
}

// GetByID returns owner's recipe with the given id. Recipes of other users
// are reported as not found.
func (s *Store) GetByID(ctx context.Context, owner users.User, id int64) (*Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.recipes[i].Owner != owner.Name {
		return nil, &NotFoundError{ID: id}
	}
	r := s.recipes[i]
	return &r, nil
}

// Delete removes owner's recipe id and returns it.
func (s *Store) Delete(ctx context.Context, owner users.User, id int64) (*Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	removed := s.recipes[i]
	if removed.Owner != owner.Name {
		return nil, &NotOwnerError{ID: id}
	}

	next := make([]Recipe, 0, len(s.recipes)-1)
	next = append(next, s.recipes[:i]...)
	next = append(next, s.recipes[i+1:]...)

	if err := s.file.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("error deleting recipe: %w", err)
	}
	s.recipes = next

	s.logger.Info(ctx, "recipe deleted", "id", id, "owner", owner.Name)
	return &removed, nil
}

// Len reports how many recipes are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

func (s *Store) indexOf(id int64) int {
	for i, r := range s.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// nextID is one past the largest id in use, or 1 for an empty store.
func (s *Store) nextID() int64 {
	var max int64
	for _, r := range s.recipes {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}
