package recipes

import (
	"errors"
	"fmt"
)

// ErrEmptyTitle rejects recipes whose title is blank.
var ErrEmptyTitle = errors.New("Title can't be empty")

// IDConflictError is returned by Put when the requested id is taken,
// whoever owns the existing recipe.
type IDConflictError struct {
	ID int64
}

func (e *IDConflictError) Error() string {
	return fmt.Sprintf("Recipe with id %d exists!", e.ID)
}

// NotFoundError is returned when no recipe has the requested id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("There is no recipe with id %d", e.ID)
}

// NotOwnerError is returned by Delete for a recipe owned by someone else.
type NotOwnerError struct {
	ID int64
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("Recipe %d does not belong to you, you can't delete it!", e.ID)
}
