// Package http provides HTTP handlers for the clipboard lifecycle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cmdc/cmdc/internal/middleware"
	"github.com/cmdc/cmdc/internal/models"
	"github.com/cmdc/cmdc/internal/service"
	"github.com/go-chi/chi/v5"
)

// ClipboardService defines the lifecycle operations required by the
// ClipboardHandler.
type ClipboardService interface {
	// Create stores a new clipboard and returns the persisted record.
	Create(ctx context.Context, text, uid string, keepAlive bool) (*models.Clipboard, error)
	// View resolves an id to its terminal view state, destroying
	// single-read records as a side effect of the fetch.
	View(ctx context.Context, id string) (service.ViewResult, error)
	// ListByOwner returns the user's persistent clipboards (fail-soft).
	ListByOwner(ctx context.Context, uid string) []models.Clipboard
	// Delete destroys a clipboard on the owner's explicit request.
	Delete(ctx context.Context, uid, id string) error
	// DeleteOwned removes several of the user's clipboards at once.
	DeleteOwned(ctx context.Context, uid string, ids []string) (int64, error)
}

// ClipboardHandler handles HTTP requests for creating, viewing and
// destroying clipboards.
type ClipboardHandler struct {
	// ClipboardService performs the underlying lifecycle operations.
	ClipboardService ClipboardService
	// BaseURL is the public prefix used when building shareable links.
	BaseURL string
}

// CreateRequest represents the JSON payload for clipboard creation.
type CreateRequest struct {
	// Text is the payload to store.
	Text string `json:"text"`
	// KeepAlive requests a persistent clipboard (authenticated users only).
	KeepAlive bool `json:"keep_alive"`
}

// Create handles POST /api/clipboards requests.
// The owner is taken from the request context when the caller is
// authenticated; anonymous creation is allowed for single-read clipboards.
func (h *ClipboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	uid := middleware.GetUserIDFromContext(r.Context())
	clip, err := h.ClipboardService.Create(r.Context(), req.Text, uid, req.KeepAlive)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrAnonymousKeepAlive):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to create clipboard", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"clipboard_id": clip.ClipboardID,
		"url":          h.BaseURL + "/" + clip.ClipboardID,
	})
}

// View handles GET /{clipboardID} and GET /api/clipboards/{clipboardID}.
// Viewing a single-read clipboard destroys it in the same store operation;
// the response tells the viewer whether this fetch consumed the record.
// A missing id is a 404, indistinguishable from an already-consumed one.
func (h *ClipboardHandler) View(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clipboardID")

	res, err := h.ClipboardService.View(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to fetch clipboard", http.StatusInternalServerError)
		return
	}
	if res.Status == service.StatusNotFound {
		http.Error(w, "clipboard not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"clipboard_id": res.Clipboard.ClipboardID,
		"text":         res.Clipboard.Text,
		"keep_alive":   res.Clipboard.KeepAlive,
		"destroyed":    res.Status == service.StatusDestroyed,
	})
}

// List handles GET /api/clipboards requests, returning the authenticated
// user's persistent clipboards. Store failures degrade to an empty list.
func (h *ClipboardHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserIDFromContext(r.Context())
	if uid == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	clips := h.ClipboardService.ListByOwner(r.Context(), uid)
	if clips == nil {
		clips = []models.Clipboard{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"clipboards": clips,
	})
}

// Delete handles DELETE /api/clipboards/{clipboardID} requests. Only the
// owner may destroy a clipboard; deleting an already-gone id succeeds.
func (h *ClipboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserIDFromContext(r.Context())
	if uid == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "clipboardID")
	if err := h.ClipboardService.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, "failed to delete clipboard", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBatchRequest represents the JSON payload for bulk deletion.
type DeleteBatchRequest struct {
	// ClipboardIDs are the ids to remove from the user's persistent list.
	ClipboardIDs []string `json:"clipboard_ids"`
}

// DeleteBatch handles DELETE /api/clipboards requests, removing several of
// the user's clipboards at once. Ids not owned by the caller are skipped.
func (h *ClipboardHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserIDFromContext(r.Context())
	if uid == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req DeleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	n, err := h.ClipboardService.DeleteOwned(r.Context(), uid, req.ClipboardIDs)
	if err != nil {
		http.Error(w, "failed to delete clipboards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{
		"deleted": n,
	})
}
