package client

import (
	"context"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// LoginResult is what a successful login returns.
type LoginResult struct {
	Email    string
	Username string
	Token    string
}

type Client interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
	ListRecipes(ctx context.Context, all bool) ([]models.Recipe, error)
	PutRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	SetToken(token string)
}
