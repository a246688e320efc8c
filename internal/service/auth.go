// Package service provides authentication business logic, exchanging
// identity-provider tokens for server sessions.
package service

import (
	"context"
	"time"

	"github.com/cmdc/cmdc/internal/identity"
	"github.com/cmdc/cmdc/internal/models"
	"github.com/google/uuid"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UpsertUser mirrors the provider-asserted identity locally.
	UpsertUser(ctx context.Context, user models.User) error
	// CreateSession persists a new session token.
	CreateSession(ctx context.Context, session models.Session) error
	// GetSession returns the live session for the token, or (nil, nil).
	GetSession(ctx context.Context, token string) (*models.Session, error)
	// DeleteSession removes a session token; unknown tokens are a no-op.
	DeleteSession(ctx context.Context, token string) error
}

// AuthService exchanges external identity-provider tokens for sessions and
// resolves session tokens back to users.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
	// verifier validates provider-issued ID tokens.
	verifier identity.Verifier
	// sessionTTL is how long an issued session stays valid.
	sessionTTL time.Duration
}

// NewAuthService constructs an AuthService. verifier must validate tokens
// of the configured identity provider.
func NewAuthService(repo AuthRepository, verifier identity.Verifier, sessionTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, verifier: verifier, sessionTTL: sessionTTL}
}

// Login verifies the provider token, mirrors the user locally, and issues
// a session. An invalid token yields identity.ErrInvalidToken.
func (s *AuthService) Login(ctx context.Context, providerToken string) (*models.Session, *models.User, error) {
	user, err := s.verifier.Verify(ctx, providerToken)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return nil, nil, err
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UID:       user.UID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, nil, err
	}

	return &session, &user, nil
}

// Logout revokes the session token. Revoking an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to a uid. An unknown or expired
// token resolves to the empty uid (anonymous), not an error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", nil
	}
	return session.UID, nil
}
