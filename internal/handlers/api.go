package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/findosh/holdings/internal/services/normalizer"
)

// ProcessedResponse is the normalized table together with its processing log
type ProcessedResponse struct {
	Columns []string             `json:"columns"`
	Rows    []models.Row         `json:"rows"`
	Removed int                  `json:"removed"`
	Log     models.ProcessingLog `json:"log"`
}

// PivotResponse is the cross-tab in display form plus totals
type PivotResponse struct {
	Columns      []models.PivotColumn `json:"columns"`
	Rows         []PivotResponseRow   `json:"rows"`
	ColumnTotals []string             `json:"column_totals"`
	GrandTotal   string               `json:"grand_total"`
}

// PivotResponseRow is one security with blank cells where nothing is held
type PivotResponseRow struct {
	Key   models.PivotRowKey `json:"key"`
	Cells []string           `json:"cells"`
	Total string             `json:"total"`
}

// APIProcessed returns the normalized table and log
func (h *Handler) APIProcessed(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.requireUpload(w, r)
	if !ok || h.notModified(w, r, upload, "processed") {
		return
	}

	res := normalizer.Normalize(upload.Table, h.analytics.Policy())
	h.writeJSON(w, ProcessedResponse{
		Columns: res.Table.Columns,
		Rows:    res.Table.Rows,
		Removed: res.Removed,
		Log:     res.Log,
	})
}

// APIGrid returns aggregated flat rows and the grouping a pivot grid applies
func (h *Handler) APIGrid(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.requireUpload(w, r)
	if !ok || h.notModified(w, r, upload, "grid") {
		return
	}

	res := normalizer.Normalize(upload.Table, h.analytics.Policy())
	h.writeJSON(w, h.analytics.GridData(res.Table))
}

// APIPivot returns the cross-tab in display form
func (h *Handler) APIPivot(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.requireUpload(w, r)
	if !ok || h.notModified(w, r, upload, "pivot") {
		return
	}

	h.writeJSON(w, newPivotResponse(h.pivot(upload)))
}

// ExportPivotCSV downloads the cross-tab as CSV
func (h *Handler) ExportPivotCSV(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.requireUpload(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=portfolio_pivot.csv")
	if err := analytics.WritePivotCSV(w, h.pivot(upload)); err != nil {
		h.log.Error().Err(err).Msg("failed to write pivot csv")
	}
}

// Healthz reports liveness and store reachability
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("health check failed")
		h.jsonError(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) pivot(upload *models.Upload) *models.PivotMatrix {
	res := normalizer.Normalize(upload.Table, h.analytics.Policy())
	return h.analytics.PivotTable(res.Table)
}

func (h *Handler) requireUpload(w http.ResponseWriter, r *http.Request) (*models.Upload, bool) {
	upload, err := h.currentUpload(r)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load upload")
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if upload == nil {
		h.jsonError(w, "no file uploaded", http.StatusNotFound)
		return nil, false
	}
	return upload, true
}

// notModified sets the ETag for a view of the upload and answers 304 when
// the client already holds it
func (h *Handler) notModified(w http.ResponseWriter, r *http.Request, upload *models.Upload, view string) bool {
	opts := h.analytics.Options()
	fp := upload.Fingerprint
	if len(fp) > 16 {
		fp = fp[:16]
	}
	etag := fmt.Sprintf(`"%s-%s-%s-%t"`, fp, view, opts.Columns, opts.DropNetZeroRows)
	w.Header().Set("ETag", etag)

	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

func newPivotResponse(m *models.PivotMatrix) PivotResponse {
	resp := PivotResponse{
		Columns:      m.Columns,
		Rows:         make([]PivotResponseRow, 0, len(m.Rows)),
		ColumnTotals: make([]string, 0, len(m.Columns)),
		GrandTotal:   m.GrandTotal().String(),
	}
	if resp.Columns == nil {
		resp.Columns = []models.PivotColumn{}
	}
	for _, row := range m.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = models.DisplayCell(c)
		}
		resp.Rows = append(resp.Rows, PivotResponseRow{Key: row.Key, Cells: cells, Total: row.Total().String()})
	}
	for _, total := range m.ColumnTotals() {
		resp.ColumnTotals = append(resp.ColumnTotals, total.String())
	}
	return resp
}
