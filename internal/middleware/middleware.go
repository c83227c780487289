// Package middleware provides HTTP middleware functions
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/session"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	SessionContextKey contextKey = "session"
)

// statusRecorder captures the status code written by the next handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logger logs all HTTP requests
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// SecurityHeaders adds security headers to all responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;")
		next.ServeHTTP(w, r)
	})
}

// Recover handles panics gracefully
func Recover(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error().
						Interface("panic", err).
						Str("path", r.URL.Path).
						Msg("panic recovered")
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Session attaches an anonymous session to every request
type Session struct {
	sessions *session.Service
	secure   bool
	log      zerolog.Logger
}

// NewSession creates a new session middleware. Cookies are marked Secure
// when secure is set.
func NewSession(sessions *session.Service, secure bool, log zerolog.Logger) *Session {
	return &Session{sessions: sessions, secure: secure, log: log}
}

// Ensure loads the caller's session from its cookie. A missing, tampered or
// expired cookie is replaced by a fresh session.
func (m *Session) Ensure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current, err := m.fromRequest(r)
		if err != nil {
			m.log.Error().Err(err).Msg("failed to load session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if current == nil {
			started, err := m.sessions.Start(r.Context())
			if err != nil {
				m.log.Error().Err(err).Msg("failed to start session")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     session.CookieName,
				Value:    started.Token,
				Path:     "/",
				Expires:  started.Expires,
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
			current = started.Session
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, current)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Session) fromRequest(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	current, err := m.sessions.ValidateToken(r.Context(), cookie.Value)
	switch {
	case err == nil:
		return current, nil
	case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrSessionExpired):
		m.log.Debug().Err(err).Msg("replacing session")
		return nil, nil
	default:
		return nil, err
	}
}

// GetSession retrieves the session from the request context
func GetSession(r *http.Request) *models.Session {
	s, ok := r.Context().Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return s
}

// Chain applies middleware in order
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
