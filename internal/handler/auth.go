package handler

import (
	"log/slog"
	"net/http"

	"github.com/bhvr/bhvr-api-go/internal/middleware"
	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", resp.User.ID)
	writeData(w, http.StatusCreated, "user created", resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "login successful", resp)
}

// HandleProfile handles GET /api/auth/profile requests.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, middleware.MsgMissingToken)
		return
	}

	resp, err := h.service.Profile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "", resp)
}

// HandleLogout handles POST /api/auth/logout requests.
// Tokens are stateless, so the client discarding its token is what ends the session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		slog.InfoContext(r.Context(), "user logged out", "user_id", id.UserID)
	}

	writeData(w, http.StatusOK, "logged out", nil)
}
