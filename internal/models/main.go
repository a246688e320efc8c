// Package models defines the core data structures for clipboards, users and sessions.
package models

import "time"

// Clipboard is the sole persisted entity of the service: a short-lived
// piece of text addressed by a short opaque identifier.
type Clipboard struct {
	// ClipboardID is the 6-character URL-safe identifier of the record.
	ClipboardID string `json:"clipboard_id"`
	// Text is the user-submitted payload.
	Text string `json:"text"`
	// UserID is the owner uid; empty means anonymous/unowned.
	UserID string `json:"user_id,omitempty"`
	// KeepAlive exempts the record from destroy-on-first-read and places
	// it in the owner's persistent list.
	KeepAlive bool `json:"keep_alive"`
	// CreatedAt is the insertion timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// User represents an authenticated identity reported by the external
// identity provider.
type User struct {
	// UID is the provider-assigned unique identifier.
	UID string `json:"uid"`
	// DisplayName is the human-readable name reported by the provider.
	DisplayName string `json:"display_name"`
}

// Session is a server-issued bearer token tied to a user.
type Session struct {
	// Token is the opaque session token handed to the client.
	Token string `json:"token"`
	// UID is the user the session belongs to.
	UID string `json:"uid"`
	// ExpiresAt is the moment the session stops being accepted.
	ExpiresAt time.Time `json:"expires_at"`
}
