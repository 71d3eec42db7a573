// Package recipes is the client-side persistence layer for recipes and
// their sync status.
package recipes

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

var ErrNotFound = errors.New("recipe not found")

// Repository describes the local recipe table.
type Repository interface {
	// Insert stores a new recipe. The id must be unused.
	Insert(ctx context.Context, r *models.Recipe) error

	// GetAll returns every recipe in id order regardless of sync status.
	GetAll(ctx context.Context) ([]models.Recipe, error)

	// GetByID returns ErrNotFound when no recipe has that id.
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)

	// DeleteByID removes the recipe. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// UpdateSyncStatus sets the sync bookkeeping of one recipe. It returns
	// ErrNotFound when the recipe is gone.
	UpdateSyncStatus(ctx context.Context, id int64, status models.SyncStatus, lastSync *int64, errMsg *string) error

	// NextLocalID is one past the largest id ever stored, or 1 for a fresh
	// table. Ids of deleted recipes are never handed out again.
	NextLocalID(ctx context.Context) (int64, error)
}
