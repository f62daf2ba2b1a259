package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/middleware"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// AuthCookie carries the session token for browser clients.
const AuthCookie = "auth-token"

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(user *domain.User) (string, time.Time, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Login checks the demo credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := domain.Authenticate(req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, "login failed")
		return
	}

	token, expiresAt, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      dto.UserInfo{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Logout clears the session cookie. Tokens are stateless, so nothing is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetCurrentUser returns the current authenticated user
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserInfo{ID: user.ID, Email: user.Email, Name: user.Name})
}
