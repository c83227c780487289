package handlers

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/findosh/holdings/internal/config"
	"github.com/findosh/holdings/internal/middleware"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/findosh/holdings/internal/services/importer"
	"github.com/findosh/holdings/internal/services/session"
	"github.com/findosh/holdings/internal/storage"
	"github.com/findosh/holdings/web"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Asset Category,Name,Ticker,Custodian,Account Type,Account Number,Value
U.S. Equity,Vanguard Total,VTI,Fidelity,IRA,1234,1000
U.S. Small Cap,Vanguard Small,VB,Fidelity,IRA,1234,500
Fixed Income,Bond Fund,BND,Schwab,Taxable,9,250.5
U.S. Equity,Vanguard Total,VTI,Schwab,Taxable,9,abc
`

type testServer struct {
	handler http.Handler
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Environment:     "development",
		SecretKey:       "test-secret",
		SessionDuration: time.Hour,
		MaxUploadMB:     1,
		LogLevel:        "info",
		IntlEquityLabel: "Int'l Equity",
		PivotColumns:    config.PivotColumnsDetailed,
	}

	db, err := storage.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	sessions := session.NewService(cfg.SecretKey, cfg.SessionDuration,
		storage.NewSessionRepository(db), storage.NewUploadRepository(db), log)
	policy := models.NewCategoryPolicy(cfg.IntlEquityLabel)

	templates, err := fs.Sub(web.TemplatesFS, "templates")
	require.NoError(t, err)
	static, err := fs.Sub(web.StaticFS, "static")
	require.NoError(t, err)

	h, err := New(cfg, templates, log, db,
		importer.NewService(cfg.MaxUploadBytes(), log),
		sessions,
		analytics.NewService(policy, analytics.Options{}),
	)
	require.NoError(t, err)

	return &testServer{handler: h.Routes(middleware.NewSession(sessions, false, log), static)}
}

// do sends a request carrying the session cookie and keeps any new one
func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		s.cookies = cookies
	}
	return rec
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) upload(t *testing.T, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func TestHome_UploadForm(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload holdings")
	assert.Contains(t, rec.Body.String(), "Account Number")
	assert.NotEmpty(t, srv.cookies)
}

func TestHome_UnknownPath(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, srv.get("/nope").Code)
}

func TestUploadAndTabs(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")

	rec := srv.upload(t, "holdings.csv", sampleCSV)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?tab=raw", rec.Header().Get("Location"))

	raw := srv.get("/?tab=raw")
	assert.Equal(t, http.StatusOK, raw.Code)
	assert.Contains(t, raw.Body.String(), "holdings.csv")
	assert.Contains(t, raw.Body.String(), "U.S. Small Cap")

	processed := srv.get("/?tab=processed").Body.String()
	assert.Contains(t, processed, "Removed 1 rows with non-numeric or zero")
	assert.Contains(t, processed, "IRA (1234)")
	assert.NotContains(t, processed, "U.S. Small Cap")

	portfolio := srv.get("/?tab=portfolio").Body.String()
	assert.Contains(t, portfolio, "Fidelity | IRA | 1234")
	assert.Contains(t, portfolio, "$1,000.00")
	assert.Contains(t, portfolio, "$1,750.50")
}

func TestUpload_Rejected(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")

	rec := srv.upload(t, "holdings.pdf", "%PDF")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=Unsupported")

	rec = srv.upload(t, "empty.csv", "   ")
	assert.Contains(t, rec.Header().Get("Location"), "error=")

	// Still on the upload form
	assert.Contains(t, srv.get("/").Body.String(), "Upload holdings")
}

func TestUpload_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusMethodNotAllowed, srv.get("/upload").Code)
}

func TestAPI_NoUpload(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/api/processed", "/api/portfolio/grid", "/api/portfolio/pivot", "/export/pivot.csv"} {
		rec := srv.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestAPI_Processed(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")
	srv.upload(t, "holdings.csv", sampleCSV)

	rec := srv.get("/api/processed")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Removed)
	assert.Len(t, resp.Rows, 3)
	assert.Contains(t, resp.Columns, models.ColAccountInfo)
	assert.NotEmpty(t, resp.Log)
}

func TestAPI_Grid(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")
	srv.upload(t, "holdings.csv", sampleCSV)

	rec := srv.get("/api/portfolio/grid")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analytics.GridData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 3)
	assert.Equal(t, "sum", resp.AggFunc)
	assert.Equal(t, []string{models.ColAssetCategory, models.ColName, models.ColTicker}, resp.RowGroups)
}

func TestAPI_PivotWithETag(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")
	srv.upload(t, "holdings.csv", sampleCSV)

	rec := srv.get("/api/portfolio/pivot")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var resp PivotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, 2)
	assert.Equal(t, "Fidelity | IRA | 1234", resp.Columns[0].Label)
	assert.Equal(t, "Schwab | Taxable | 9", resp.Columns[1].Label)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, "VB", resp.Rows[0].Key.Ticker)
	assert.Equal(t, []string{"500", ""}, resp.Rows[0].Cells)
	assert.Equal(t, "1750.5", resp.GrandTotal)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/pivot", nil)
	req.Header.Set("If-None-Match", etag)
	cached := srv.do(req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Zero(t, cached.Body.Len())

	// The grid view of the same upload has its own tag
	assert.NotEqual(t, etag, srv.get("/api/portfolio/grid").Header().Get("ETag"))
}

func TestExportPivotCSV(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")
	srv.upload(t, "holdings.csv", sampleCSV)

	rec := srv.get("/export/pivot.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Asset Category,Name,Ticker,Fidelity | IRA | 1234,Schwab | Taxable | 9", lines[0])
	assert.Equal(t, "Fixed Income,Bond Fund,BND,,250.5", lines[3])
}

func TestReset(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")
	srv.upload(t, "holdings.csv", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, "/reset", nil)
	rec := srv.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	assert.Equal(t, http.StatusNotFound, srv.get("/api/processed").Code)
	assert.Contains(t, srv.get("/").Body.String(), "Upload holdings")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	srv.get("/")
	srv.upload(t, "holdings.csv", sampleCSV)

	other := &testServer{handler: srv.handler}
	assert.Equal(t, http.StatusNotFound, other.get("/api/processed").Code)
}

func TestDownloadTemplate(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.get("/api/template.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	header := strings.SplitN(rec.Body.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(models.ExpectedColumns, ","), header)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.get("/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}
