package rest

import (
	"net/http"

	"github.com/dmitrijs2005/recipebook/internal/server/middleware"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type versionResponse struct {
	CurrentUser string `json:"current_user"`
}

// Version reports who the bearer token belongs to.
func Version(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, versionResponse{CurrentUser: mustUser(r).Name})
}
