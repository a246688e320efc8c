// Package http provides HTTP handlers for session login and logout against
// the external identity provider.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cmdc/cmdc/internal/identity"
	"github.com/cmdc/cmdc/internal/models"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Login exchanges a provider-issued ID token for a server session.
	Login(ctx context.Context, providerToken string) (*models.Session, *models.User, error)
	// Logout revokes the session token; unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for login and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	// IDToken is the token obtained from the external identity provider.
	IDToken string `json:"id_token"`
}

// Login handles POST /api/login requests. It expects a JSON body with a
// non-empty "id_token" obtained from the identity provider's own sign-in
// flow, and responds with a session token and the asserted user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, user, err := h.AuthService.Login(r.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			http.Error(w, "invalid identity token", http.StatusUnauthorized)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       user,
	})
}

// Logout handles POST /api/logout requests. The session to revoke is the
// bearer token of the request itself; revoking an unknown token succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	token := strings.TrimSpace(header[len(prefix):])

	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
