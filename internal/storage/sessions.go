package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/findosh/holdings/internal/models"
	"github.com/google/uuid"
)

// SessionRepository provides session data access
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, expires_at, created_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID.String(),
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID retrieves a session. It returns nil, nil when the session is unknown.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `
		SELECT id, expires_at, created_at
		FROM sessions WHERE id = ?
	`
	var session models.Session
	var rawID string

	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session.ID, _ = uuid.Parse(rawID)
	return &session, nil
}

// Delete removes a session and, by cascade, its upload
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id.String())
	return err
}

// DeleteExpired removes all expired sessions and returns how many went
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
