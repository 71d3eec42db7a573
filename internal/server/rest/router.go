// Package rest is the HTTP surface of the server.
package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/metrics"
	"github.com/dmitrijs2005/recipebook/internal/server/middleware"
	"github.com/dmitrijs2005/recipebook/internal/server/recipes"
	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

// UserService is the part of users.Store the handlers need.
type UserService interface {
	Create(ctx context.Context, email, name, password string) (*users.User, error)
	ValidateLoginRequest(ctx context.Context, email, password string) (*users.User, error)
}

// RecipeService is the part of recipes.Store the handlers need.
type RecipeService interface {
	Put(ctx context.Context, owner users.User, req recipes.PutRequest) (*recipes.Recipe, error)
	Get(ctx context.Context, owner users.User, all bool) []recipes.Recipe
	GetByID(ctx context.Context, owner users.User, id int64) (*recipes.Recipe, error)
	Delete(ctx context.Context, owner users.User, id int64) (*recipes.Recipe, error)
}

type TokenIssuer interface {
	GenerateToken(username string) (string, error)
}

// RouterDeps groups everything NewRouter wires together.
type RouterDeps struct {
	Logger  logging.Logger
	Metrics metrics.Recorder
	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	Users   UserService
	Recipes RecipeService
	Tokens  TokenIssuer
	Gate    middleware.Authenticator

	// LoginLimiter throttles POST /users/login. Nil disables throttling.
	LoginLimiter *middleware.RateLimiter
}

// NewRouter builds the full route table.
//
// Middleware order:
//
//	RequestID → Recovery → AccessLog (logging + metrics)
//
// Protected routes additionally pass through RequireUser.
func NewRouter(deps *RouterDeps) http.Handler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.AccessLog(deps.Logger, deps.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	uh := NewUserHandler(deps.Users, deps.Tokens, deps.Metrics, deps.Logger)
	rh := NewRecipeHandler(deps.Recipes, deps.Metrics, deps.Logger)

	r.Get("/health", Health)
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", uh.Register)
		if deps.LoginLimiter != nil {
			r.With(deps.LoginLimiter.LoginMiddleware()).Post("/login", uh.Login)
		} else {
			r.Post("/login", uh.Login)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(deps.Gate))

		r.Get("/version", Version)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", rh.List)
			r.Post("/", rh.Create)
			r.Get("/{id}", rh.Get)
			r.Delete("/{id}", rh.Delete)
		})
	})

	return r
}
