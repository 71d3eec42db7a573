package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/metrics"
	"github.com/dmitrijs2005/recipebook/internal/server/middleware"
	"github.com/dmitrijs2005/recipebook/internal/server/recipes"
	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

type RecipeHandler struct {
	recipes RecipeService
	metrics metrics.Recorder
	logger  logging.Logger
}

func NewRecipeHandler(rs RecipeService, rec metrics.Recorder, logger logging.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: rs, metrics: rec, logger: logger.With("module", "rest.recipes")}
}

type createdResponse struct {
	Message string          `json:"message"`
	Recipe  *recipes.Recipe `json:"recipe"`
}

// List handles GET /recipes?all=<bool>.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	u := mustUser(r)

	all := false
	if v := r.URL.Query().Get("all"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Query parameter all must be a boolean")
			return
		}
		all = b
	}

	middleware.WriteJSON(w, http.StatusOK, h.recipes.Get(r.Context(), u, all))
}

// Get handles GET /recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.recipes.GetByID(r.Context(), mustUser(r), id)
	if err != nil {
		h.writeStoreError(w, r, err, http.StatusNotFound)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// Create handles POST /recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipes.PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.recipes.Put(r.Context(), mustUser(r), req)
	if err != nil {
		h.writeStoreError(w, r, err, http.StatusBadRequest)
		return
	}

	h.metrics.RecordRecipeStored()
	middleware.WriteJSON(w, http.StatusCreated, createdResponse{Message: "Recipe created", Recipe: rec})
}

// Delete handles DELETE /recipes/{id}. The deleted record is echoed in the
// body of the 204; net/http drops it on real connections.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.recipes.Delete(r.Context(), mustUser(r), id)
	if err != nil {
		h.writeStoreError(w, r, err, http.StatusBadRequest)
		return
	}

	h.metrics.RecordRecipeDeleted()
	middleware.WriteJSON(w, http.StatusNoContent, rec)
}

// writeStoreError maps validation and ownership errors to clientStatus and
// anything else to 500.
func (h *RecipeHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, clientStatus int) {
	var (
		conflict *recipes.IDConflictError
		notFound *recipes.NotFoundError
		notOwner *recipes.NotOwnerError
	)
	switch {
	case errors.Is(err, recipes.ErrEmptyTitle),
		errors.As(err, &conflict),
		errors.As(err, &notFound),
		errors.As(err, &notOwner):
		middleware.WriteError(w, clientStatus, err.Error())
	default:
		h.logger.Error(r.Context(), "recipe store failed", "error", err)
		middleware.WriteInternalServerError(w)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Recipe id must be an integer")
		return 0, false
	}
	return id, true
}

// mustUser returns the authenticated user. Only valid behind RequireUser.
func mustUser(r *http.Request) users.User {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		panic("rest: handler reached without an authenticated user")
	}
	return *u
}
