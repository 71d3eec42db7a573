package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/metrics"
	"github.com/dmitrijs2005/recipebook/internal/server/middleware"
	"github.com/dmitrijs2005/recipebook/internal/server/users"
)

type UserHandler struct {
	users   UserService
	tokens  TokenIssuer
	metrics metrics.Recorder
	logger  logging.Logger
}

func NewUserHandler(us UserService, tokens TokenIssuer, rec metrics.Recorder, logger logging.Logger) *UserHandler {
	return &UserHandler{users: us, tokens: tokens, metrics: rec, logger: logger.With("module", "rest.users")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type userData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.users.ValidateLoginRequest(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin(metrics.LoginRejected)
		if isLoginError(err) {
			middleware.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error(r.Context(), "login failed", "error", err)
		middleware.WriteInternalServerError(w)
		return
	}

	token, err := h.tokens.GenerateToken(u.Name)
	if err != nil {
		h.logger.Error(r.Context(), "token generation failed", "error", err)
		middleware.WriteInternalServerError(w)
		return
	}

	h.metrics.RecordLogin(metrics.LoginOK)
	middleware.WriteJSON(w, http.StatusOK, middleware.Envelope{
		Message: "Login successful",
		Data:    loginData{Email: u.Email, Username: u.Name, Token: token},
	})
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		middleware.WriteError(w, http.StatusBadRequest, users.ErrMissingCredentials.Error())
		return
	}

	u, err := h.users.Create(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Error(r.Context(), "registration failed", "error", err)
		middleware.WriteInternalServerError(w)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, middleware.Envelope{
		Message: "User created",
		Data:    userData{Email: u.Email, Username: u.Name},
	})
}

func isLoginError(err error) bool {
	return errors.Is(err, users.ErrMissingCredentials) ||
		errors.Is(err, users.ErrUserNotFound) ||
		errors.Is(err, users.ErrBadCredentials)
}
