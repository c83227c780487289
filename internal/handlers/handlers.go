// Package handlers provides HTTP request handlers
package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/findosh/holdings/internal/config"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/findosh/holdings/internal/services/importer"
	"github.com/findosh/holdings/internal/services/session"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Pinger reports whether the session store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg       *config.Config
	templates *template.Template
	log       zerolog.Logger
	db        Pinger
	importer  *importer.Service
	sessions  *session.Service
	analytics *analytics.Service
}

// New creates a new handler with all dependencies. Templates are parsed from
// the *.html files at the root of templates.
func New(
	cfg *config.Config,
	templates fs.FS,
	log zerolog.Logger,
	db Pinger,
	importerService *importer.Service,
	sessionService *session.Service,
	analyticsService *analytics.Service,
) (*Handler, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templates, "*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:       cfg,
		templates: tmpl,
		log:       log,
		db:        db,
		importer:  importerService,
		sessions:  sessionService,
		analytics: analyticsService,
	}, nil
}

type allocationView struct {
	Heading string
	Slices  []models.AllocationSlice
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMoney": func(d decimal.Decimal) string { return models.FormatMoney(d) },
		"formatCell":  models.FormatCell,
		"allocation": func(heading string, slices []models.AllocationSlice) allocationView {
			return allocationView{Heading: heading, Slices: slices}
		},
	}
}

// render renders a template with the given data
func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("template error")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// redirect performs an HTTP redirect
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// jsonError writes a JSON error response
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes v as JSON
func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}
