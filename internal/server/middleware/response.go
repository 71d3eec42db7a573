// Package middleware holds the HTTP middleware of the server and the JSON
// envelope shared by every error path.
package middleware

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every error response and of the login and
// registration responses.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope. The error field is the status text.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{
		Message: message,
		Data:    nil,
		Error:   http.StatusText(status),
	})
}

// WriteInternalServerError hides the cause from the caller; it belongs in
// the log.
func WriteInternalServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Something went wrong")
}
