package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/importer"
	"github.com/findosh/holdings/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService(t *testing.T, ttl time.Duration) (*Service, *storage.DB) {
	t.Helper()
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	svc := NewService(testSecret, ttl,
		storage.NewSessionRepository(db),
		storage.NewUploadRepository(db),
		zerolog.Nop(),
	)
	return svc, db
}

func parsed() *importer.ParseResult {
	table := models.NewTable(models.ColTicker, models.ColValue)
	table.Rows = append(table.Rows, models.Row{"VTI", "100"})
	return &importer.ParseResult{
		Table:       table,
		Filename:    "holdings.csv",
		Format:      importer.FormatCSV,
		Fingerprint: "abc123",
	}
}

func TestStartAndValidate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Hour)

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, started.Token)

	session, err := svc.ValidateToken(ctx, started.Token)
	require.NoError(t, err)
	assert.Equal(t, started.Session.ID, session.ID)
}

func TestValidateToken_Tampered(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Hour)

	started, err := svc.Start(ctx)
	require.NoError(t, err)

	parts := strings.Split(started.Token, ".")
	require.Len(t, parts, 3)
	forged := fmt.Sprintf(`{"sub":%q,"exp":%d}`, uuid.NewString(), time.Now().Add(time.Hour).Unix())
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
	tampered := strings.Join(parts, ".")
	_, err = svc.ValidateToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Hour)

	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_UnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Hour)

	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, -time.Minute)

	started, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, started.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestUploadLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Hour)

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	id := started.Session.ID

	none, err := svc.CurrentUpload(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.SaveUpload(ctx, id, parsed())
	require.NoError(t, err)

	upload, err := svc.CurrentUpload(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.Equal(t, "holdings.csv", upload.Filename)
	assert.Equal(t, "abc123", upload.Fingerprint)
	assert.Equal(t, 1, upload.Table.Len())

	require.NoError(t, svc.Reset(ctx, id))
	upload, err = svc.CurrentUpload(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestSaveUpload_PurgesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, time.Hour)
	sessions := storage.NewSessionRepository(db)

	stale := models.NewSession(time.Hour)
	stale.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, sessions.Create(ctx, stale))

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SaveUpload(ctx, started.Session.ID, parsed())
	require.NoError(t, err)

	got, err := sessions.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
