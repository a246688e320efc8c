// Package repository provides persistence implementations for authentication services.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmdc/cmdc/internal/models"
)

// PostgresAuthRepository implements user and session persistence using a
// PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UpsertUser stores the user, updating the display name when the uid is
// already known. Identity data is owned by the external provider; this is
// only a local mirror.
func (s *PostgresAuthRepository) UpsertUser(ctx context.Context, user models.User) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (uid, display_name) VALUES ($1, $2)
		ON CONFLICT (uid) DO UPDATE SET display_name = EXCLUDED.display_name
	`, user.UID, user.DisplayName)
	if err != nil {
		return fmt.Errorf("UpsertUser: %w", err)
	}
	return nil
}

// CreateSession persists a new session token.
func (s *PostgresAuthRepository) CreateSession(ctx context.Context, session models.Session) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO sessions (token, uid, expires_at) VALUES ($1, $2, $3)
	`, session.Token, session.UID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("CreateSession: %w", err)
	}
	return nil
}

// GetSession returns the session for the given token if it exists and has
// not expired; a missing or expired token is a normal (nil, nil) result.
func (s *PostgresAuthRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.DB.QueryRowContext(ctx, `
		SELECT token, uid, expires_at FROM sessions
		WHERE token = $1 AND expires_at > $2
	`, token, time.Now()).Scan(&session.Token, &session.UID, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetSession: %w", err)
	}
	return &session, nil
}

// DeleteSession removes the session token. Deleting an unknown token is a
// no-op.
func (s *PostgresAuthRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `
		DELETE FROM sessions WHERE token = $1
	`, token)
	if err != nil {
		return fmt.Errorf("DeleteSession: %w", err)
	}
	return nil
}
