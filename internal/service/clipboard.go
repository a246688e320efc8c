// Package service provides business-logic services for the clipboard
// lifecycle and authentication, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmdc/cmdc/internal/models"
	"github.com/cmdc/cmdc/internal/repository"
	"github.com/cmdc/cmdc/internal/shortid"
	"go.uber.org/zap"
)

// ErrEmptyText is returned when a clipboard is created without text.
var ErrEmptyText = errors.New("clipboard text is required")

// ErrAnonymousKeepAlive is returned when an unauthenticated creation
// requests persistence. Persistence requires ownership.
var ErrAnonymousKeepAlive = errors.New("keep-alive requires an authenticated user")

// ErrForbidden is returned when a user attempts to destroy a clipboard
// they do not own.
var ErrForbidden = errors.New("clipboard not owned by user")

// maxCreateAttempts bounds id regeneration on duplicate collisions.
const maxCreateAttempts = 5

// ViewStatus is the terminal state of one viewer's fetch of a clipboard.
type ViewStatus string

const (
	// StatusNotFound means no record matched: the id never existed or was
	// already consumed. The two causes are intentionally indistinguishable.
	StatusNotFound ViewStatus = "not_found"
	// StatusDestroyed means this fetch returned the text and deleted the
	// record in the same transaction.
	StatusDestroyed ViewStatus = "destroyed"
	// StatusPersistent means the record is keep-alive and remains readable.
	StatusPersistent ViewStatus = "persistent"
)

// ViewResult carries the outcome of viewing a clipboard id.
type ViewResult struct {
	Status ViewStatus
	// Clipboard is set for StatusDestroyed and StatusPersistent.
	Clipboard *models.Clipboard
}

// ClipboardRepository defines the persistence operations needed by the
// ClipboardService.
type ClipboardRepository interface {
	// Create inserts a new record; a taken id yields repository.ErrDuplicateID.
	Create(ctx context.Context, clip *models.Clipboard) error
	// Consume fetches a record and deletes it atomically unless keep-alive.
	// A missing id is a normal (nil, false, nil) result.
	Consume(ctx context.Context, id string) (*models.Clipboard, bool, error)
	// GetByID fetches a record without side effects; missing id yields (nil, nil).
	GetByID(ctx context.Context, id string) (*models.Clipboard, error)
	// DeleteByID removes a record; absent ids are a no-op.
	DeleteByID(ctx context.Context, id string) error
	// DeleteByOwner removes the given ids restricted to the owner's records.
	DeleteByOwner(ctx context.Context, uid string, ids []string) (int64, error)
	// ListByOwner returns all keep-alive records owned by uid.
	ListByOwner(ctx context.Context, uid string) ([]models.Clipboard, error)
}

// ClipboardService implements the clipboard lifecycle.
type ClipboardService struct {
	// repo is the underlying persistence repository.
	repo ClipboardRepository
	// log records fail-soft degradations and id collisions.
	log *zap.Logger
}

// NewClipboardService constructs a ClipboardService with the provided
// repository and logger.
func NewClipboardService(repo ClipboardRepository, log *zap.Logger) *ClipboardService {
	return &ClipboardService{repo: repo, log: log}
}

// Create stores a new clipboard and returns the persisted record. The id is
// generated here and allocation is authoritative: a collision with an
// existing id is detected by the store's conditional insert and the id is
// regenerated, up to maxCreateAttempts times.
//
// keepAlive without an authenticated uid is rejected; persistent records
// must have an owner.
func (s *ClipboardService) Create(ctx context.Context, text, uid string, keepAlive bool) (*models.Clipboard, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if keepAlive && uid == "" {
		return nil, ErrAnonymousKeepAlive
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := shortid.New()
		if err != nil {
			return nil, fmt.Errorf("generate clipboard id: %w", err)
		}

		clip := &models.Clipboard{
			ClipboardID: id,
			Text:        text,
			UserID:      uid,
			KeepAlive:   keepAlive,
		}
		err = s.repo.Create(ctx, clip)
		if err == nil {
			return clip, nil
		}
		if errors.Is(err, repository.ErrDuplicateID) {
			s.log.Warn("clipboard id collision, regenerating",
				zap.String("clipboard_id", id),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("could not allocate a unique clipboard id after %d attempts", maxCreateAttempts)
}

// View resolves a clipboard id to its terminal view state. A single-read
// record is returned and destroyed in one atomic store operation, so two
// concurrent viewers of the same id cannot both see the text. A keep-alive
// record is returned unchanged, any number of times.
func (s *ClipboardService) View(ctx context.Context, id string) (ViewResult, error) {
	clip, destroyed, err := s.repo.Consume(ctx, id)
	if err != nil {
		return ViewResult{}, err
	}
	if clip == nil {
		return ViewResult{Status: StatusNotFound}, nil
	}
	if destroyed {
		return ViewResult{Status: StatusDestroyed, Clipboard: clip}, nil
	}
	return ViewResult{Status: StatusPersistent, Clipboard: clip}, nil
}

// ListByOwner returns the user's persistent clipboards. Listing is a
// non-critical view: store failures are logged and degrade to an empty
// list instead of propagating.
func (s *ClipboardService) ListByOwner(ctx context.Context, uid string) []models.Clipboard {
	clips, err := s.repo.ListByOwner(ctx, uid)
	if err != nil {
		s.log.Error("failed to list clipboards, returning empty list",
			zap.String("uid", uid),
			zap.Error(err),
		)
		return nil
	}
	return clips
}

// Delete destroys a clipboard on the owner's explicit request. Deleting an
// id that is already gone succeeds as a no-op; deleting a record owned by
// someone else (or unowned) is ErrForbidden.
func (s *ClipboardService) Delete(ctx context.Context, uid, id string) error {
	clip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if clip == nil {
		return nil
	}
	if clip.UserID != uid {
		return ErrForbidden
	}
	return s.repo.DeleteByID(ctx, id)
}

// DeleteOwned removes several of the user's clipboards at once; ids not
// owned by uid are silently skipped. Returns the number actually removed.
func (s *ClipboardService) DeleteOwned(ctx context.Context, uid string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteByOwner(ctx, uid, ids)
}
