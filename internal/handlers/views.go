package handlers

import (
	"net/http"

	"github.com/findosh/holdings/internal/middleware"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/normalizer"
)

// Tabs of the home page
const (
	TabRaw       = "raw"
	TabProcessed = "processed"
	TabPortfolio = "portfolio"
)

type homePage struct {
	Title     string
	Error     string
	Expected  []string
	Upload    *models.Upload
	Tab       string
	Raw       models.Table
	Processed *normalizer.Result
	Pivot     *models.PivotMatrix
	Portfolio *models.Portfolio
}

// Home renders the upload form, or the selected tab once a file is uploaded.
// Every derived view is recomputed from the raw upload on each request.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	upload, err := h.currentUpload(r)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load upload")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := homePage{
		Title:    "Holdings Viewer",
		Error:    r.URL.Query().Get("error"),
		Expected: models.ExpectedColumns,
		Upload:   upload,
	}
	if upload == nil {
		h.render(w, "index.html", data)
		return
	}

	data.Tab = r.URL.Query().Get("tab")
	switch data.Tab {
	case TabRaw, TabProcessed, TabPortfolio:
	default:
		data.Tab = TabRaw
	}

	switch data.Tab {
	case TabRaw:
		data.Raw = upload.Table
	case TabProcessed:
		res := normalizer.Normalize(upload.Table, h.analytics.Policy())
		data.Processed = &res
	case TabPortfolio:
		res := normalizer.Normalize(upload.Table, h.analytics.Policy())
		holdings := h.analytics.Aggregate(res.Table)
		data.Pivot = h.analytics.Pivot(holdings)
		data.Portfolio = models.NewPortfolio(holdings, h.analytics.Policy())
	}

	h.render(w, "index.html", data)
}

// currentUpload returns the request session's upload, or nil
func (h *Handler) currentUpload(r *http.Request) (*models.Upload, error) {
	s := middleware.GetSession(r)
	if s == nil {
		return nil, nil
	}
	return h.sessions.CurrentUpload(r.Context(), s.ID)
}
