package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"net/url"

	"github.com/findosh/holdings/internal/middleware"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/importer"
)

// Upload parses the posted file and makes it the session's current table.
// A file that cannot be read leaves the previous upload in place.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := middleware.GetSession(r)
	if s == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Multipart overhead on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes()+1<<20)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		h.uploadFailed(w, r, "File too large or malformed upload.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.uploadFailed(w, r, "No file uploaded.")
		return
	}
	defer file.Close()

	parsed, err := h.importer.Load(r.Context(), header.Filename, file)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Msg("upload rejected")
		h.uploadFailed(w, r, uploadErrorMessage(err))
		return
	}

	if _, err := h.sessions.SaveUpload(r.Context(), s.ID, parsed); err != nil {
		h.log.Error().Err(err).Msg("failed to store upload")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.redirect(w, r, "/?tab="+TabRaw)
}

// Reset forgets the session's upload and returns to the upload form
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s := middleware.GetSession(r); s != nil {
		if err := h.sessions.Reset(r.Context(), s.ID); err != nil {
			h.log.Error().Err(err).Msg("failed to reset session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	h.redirect(w, r, "/")
}

// DownloadTemplate serves an empty CSV with the expected headers
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=holdings_template.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write(models.ExpectedColumns)
	writer.Write([]string{"U.S. Equity", "Vanguard Total Stock Market ETF", "VTI", "Fidelity", "IRA", "1234", "10000.00"})
}

func (h *Handler) uploadFailed(w http.ResponseWriter, r *http.Request, message string) {
	h.redirect(w, r, "/?error="+url.QueryEscape(message))
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat):
		return "Unsupported file type. Please upload a .csv or .xlsx file."
	case errors.Is(err, importer.ErrEmptyFile):
		return "The uploaded file contains no data."
	case errors.Is(err, importer.ErrFileTooLarge):
		return "The uploaded file is too large."
	default:
		return "Error reading file. Check that it is a valid CSV or Excel export."
	}
}
