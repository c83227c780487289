package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/findosh/holdings/internal/models"
	"github.com/google/uuid"
)

// UploadRepository stores the raw table each session uploaded
type UploadRepository struct {
	db *DB
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db *DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Save stores the upload, replacing any previous upload of the same session
func (r *UploadRepository) Save(ctx context.Context, upload *models.Upload) error {
	columns, err := json.Marshal(upload.Table.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode columns: %w", err)
	}
	rows, err := json.Marshal(upload.Table.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	query := `
		INSERT INTO uploads (session_id, filename, format, fingerprint, columns, rows, uploaded_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			filename = excluded.filename,
			format = excluded.format,
			fingerprint = excluded.fingerprint,
			columns = excluded.columns,
			rows = excluded.rows,
			uploaded_at = excluded.uploaded_at,
			expires_at = excluded.expires_at
	`
	_, err = r.db.ExecContext(ctx, query,
		upload.SessionID.String(),
		upload.Filename,
		upload.Format,
		upload.Fingerprint,
		string(columns),
		string(rows),
		upload.UploadedAt,
		upload.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return nil
}

// GetBySession retrieves the session's upload. It returns nil, nil when the
// session has not uploaded anything.
func (r *UploadRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.Upload, error) {
	query := `
		SELECT session_id, filename, format, fingerprint, columns, rows, uploaded_at, expires_at
		FROM uploads WHERE session_id = ?
	`
	var upload models.Upload
	var rawID, columns, rows string

	err := r.db.QueryRowContext(ctx, query, sessionID.String()).Scan(
		&rawID,
		&upload.Filename,
		&upload.Format,
		&upload.Fingerprint,
		&columns,
		&rows,
		&upload.UploadedAt,
		&upload.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload: %w", err)
	}

	upload.SessionID, _ = uuid.Parse(rawID)
	if err := json.Unmarshal([]byte(columns), &upload.Table.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns: %w", err)
	}
	if err := json.Unmarshal([]byte(rows), &upload.Table.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}

	return &upload, nil
}

// Delete removes the session's upload
func (r *UploadRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM uploads WHERE session_id = ?", sessionID.String())
	return err
}
