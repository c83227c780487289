// Package session tracks anonymous browser sessions and the upload each one holds
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/importer"
	"github.com/findosh/holdings/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")
)

// CookieName is the cookie carrying the signed session token
const CookieName = "holdings_session"

// Service issues session tokens and stores uploads per session
type Service struct {
	secret   []byte
	ttl      time.Duration
	sessions *storage.SessionRepository
	uploads  *storage.UploadRepository
	log      zerolog.Logger
}

// NewService creates a new session service
func NewService(secret string, ttl time.Duration, sessions *storage.SessionRepository, uploads *storage.UploadRepository, log zerolog.Logger) *Service {
	return &Service{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: sessions,
		uploads:  uploads,
		log:      log.With().Str("service", "session").Logger(),
	}
}

// StartResult contains a freshly started session and its signed token
type StartResult struct {
	Session *models.Session
	Token   string
	Expires time.Time
}

// Start creates a new session
func (s *Service) Start(ctx context.Context) (*StartResult, error) {
	session := models.NewSession(s.ttl)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.createToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	s.log.Debug().Str("session_id", session.ID.String()).Msg("session started")

	return &StartResult{
		Session: session,
		Token:   token,
		Expires: session.ExpiresAt,
	}, nil
}

// ValidateToken verifies a session token and returns its live session
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrInvalidToken
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// SaveUpload replaces the session's upload with a freshly parsed file.
// Expired sessions are purged on the way.
func (s *Service) SaveUpload(ctx context.Context, sessionID uuid.UUID, parsed *importer.ParseResult) (*models.Upload, error) {
	if n, err := s.CleanupExpired(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to purge expired sessions")
	} else if n > 0 {
		s.log.Info().Int64("purged", n).Msg("purged expired sessions")
	}

	upload := models.NewUpload(sessionID, parsed.Filename, parsed.Format, parsed.Fingerprint, parsed.Table, s.ttl)
	if err := s.uploads.Save(ctx, upload); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("session_id", sessionID.String()).
		Str("filename", upload.Filename).
		Int("rows", upload.Table.Len()).
		Msg("upload stored")
	return upload, nil
}

// CurrentUpload returns the session's upload, or nil when there is none
func (s *Service) CurrentUpload(ctx context.Context, sessionID uuid.UUID) (*models.Upload, error) {
	upload, err := s.uploads.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if upload != nil && upload.IsExpired() {
		return nil, nil
	}
	return upload, nil
}

// Reset forgets the session's upload
func (s *Service) Reset(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.uploads.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	s.log.Info().Str("session_id", sessionID.String()).Msg("upload cleared")
	return nil
}

// CleanupExpired removes expired sessions and their uploads
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

func (s *Service) createToken(session *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.ID.String(),
		"exp": session.ExpiresAt.Unix(),
		"iat": session.CreatedAt.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
