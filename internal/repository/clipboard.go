// Package repository provides persistence implementations for clipboard
// and authentication services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmdc/cmdc/internal/models"
	"github.com/lib/pq"
)

// ErrDuplicateID is returned by Create when the generated clipboard id
// already exists in the store.
var ErrDuplicateID = errors.New("clipboard id already exists")

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresClipboardRepository implements clipboard persistence operations
// against a PostgreSQL database.
type PostgresClipboardRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresClipboardRepository creates a new PostgresClipboardRepository
// using the provided *sql.DB. db must be a valid connection to a PostgreSQL
// instance.
func NewPostgresClipboardRepository(db *sql.DB) *PostgresClipboardRepository {
	return &PostgresClipboardRepository{DB: db}
}

// Create inserts a new clipboard record. The insert is conditional on the
// id being free: a primary-key collision is mapped to ErrDuplicateID so the
// caller can regenerate and retry. No retry is attempted at this layer.
func (s *PostgresClipboardRepository) Create(ctx context.Context, clip *models.Clipboard) error {
	owner := sql.NullString{String: clip.UserID, Valid: clip.UserID != ""}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO clipboards (clipboard_id, text, user_id, keep_alive)
		VALUES ($1, $2, $3, $4)
	`, clip.ClipboardID, clip.Text, owner, clip.KeepAlive)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Consume fetches the record with the given id and, when it is not marked
// keep-alive, deletes it within the same transaction. The row is locked
// between the read and the delete, so two concurrent viewers of a
// single-read clipboard cannot both observe the text.
//
// Returns the record and whether this call destroyed it. A missing id is
// a normal (nil, false, nil) result, not an error.
func (s *PostgresClipboardRepository) Consume(ctx context.Context, id string) (*models.Clipboard, bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var clip models.Clipboard
	var owner sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT clipboard_id, text, user_id, keep_alive, created_at FROM clipboards
		WHERE clipboard_id = $1 FOR UPDATE
	`, id).Scan(&clip.ClipboardID, &clip.Text, &owner, &clip.KeepAlive, &clip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("Consume: %w", err)
	}
	clip.UserID = owner.String

	if clip.KeepAlive {
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit: %w", err)
		}
		return &clip, false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM clipboards WHERE clipboard_id = $1
	`, id); err != nil {
		return nil, false, fmt.Errorf("Consume delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return &clip, true, nil
}

// GetByID fetches a single record without side effects. A missing id is a
// normal (nil, nil) result.
func (s *PostgresClipboardRepository) GetByID(ctx context.Context, id string) (*models.Clipboard, error) {
	var clip models.Clipboard
	var owner sql.NullString
	err := s.DB.QueryRowContext(ctx, `
		SELECT clipboard_id, text, user_id, keep_alive, created_at FROM clipboards
		WHERE clipboard_id = $1
	`, id).Scan(&clip.ClipboardID, &clip.Text, &owner, &clip.KeepAlive, &clip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	clip.UserID = owner.String
	return &clip, nil
}

// DeleteByID deletes the record with the given id. Deleting an id that is
// already gone is a no-op, not an error.
func (s *PostgresClipboardRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `
		DELETE FROM clipboards WHERE clipboard_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

// DeleteByOwner removes the given ids, restricted to records owned by uid.
// Returns the number of rows actually deleted.
func (s *PostgresClipboardRepository) DeleteByOwner(ctx context.Context, uid string, ids []string) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM clipboards WHERE user_id = $1 AND clipboard_id = ANY($2)
	`, uid, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("DeleteByOwner: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// ListByOwner returns all persistent (keep-alive) records belonging to uid.
func (s *PostgresClipboardRepository) ListByOwner(ctx context.Context, uid string) ([]models.Clipboard, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT clipboard_id, text, user_id, keep_alive, created_at FROM clipboards
		WHERE keep_alive = true AND user_id = $1
		ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var clips []models.Clipboard
	for rows.Next() {
		var clip models.Clipboard
		var owner sql.NullString
		if err := rows.Scan(&clip.ClipboardID, &clip.Text, &owner, &clip.KeepAlive, &clip.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		clip.UserID = owner.String
		clips = append(clips, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return clips, nil
}
