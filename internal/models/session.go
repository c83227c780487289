// Package models defines core domain types
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an anonymous browser session. It owns at most one upload.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession starts a session that lasts ttl
func NewSession(ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired checks if the session has ended
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Upload is the raw table a session is browsing
type Upload struct {
	SessionID   uuid.UUID `json:"session_id"`
	Filename    string    `json:"filename"`
	Format      string    `json:"format"` // "csv" or "xlsx"
	Fingerprint string    `json:"fingerprint"`
	Table       Table     `json:"table"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewUpload creates an upload that expires after ttl
func NewUpload(sessionID uuid.UUID, filename, format, fingerprint string, table Table, ttl time.Duration) *Upload {
	now := time.Now().UTC()
	return &Upload{
		SessionID:   sessionID,
		Filename:    filename,
		Format:      format,
		Fingerprint: fingerprint,
		Table:       table,
		UploadedAt:  now,
		ExpiresAt:   now.Add(ttl),
	}
}

// IsExpired checks if the upload has outlived its session
func (u *Upload) IsExpired() bool {
	return time.Now().UTC().After(u.ExpiresAt)
}
