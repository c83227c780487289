package handlers

import (
	"io/fs"
	"net/http"

	"github.com/findosh/holdings/internal/middleware"
)

// Routes wires every endpoint. Pages and APIs run inside a session; static
// assets and the health check do not.
func (h *Handler) Routes(sessions *middleware.Session, static fs.FS) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/api/template.csv", h.DownloadTemplate)

	// Session routes
	mux.Handle("/", sessions.Ensure(http.HandlerFunc(h.Home)))
	mux.Handle("/upload", sessions.Ensure(http.HandlerFunc(h.Upload)))
	mux.Handle("/reset", sessions.Ensure(http.HandlerFunc(h.Reset)))
	mux.Handle("/api/processed", sessions.Ensure(http.HandlerFunc(h.APIProcessed)))
	mux.Handle("/api/portfolio/grid", sessions.Ensure(http.HandlerFunc(h.APIGrid)))
	mux.Handle("/api/portfolio/pivot", sessions.Ensure(http.HandlerFunc(h.APIPivot)))
	mux.Handle("/export/pivot.csv", sessions.Ensure(http.HandlerFunc(h.ExportPivotCSV)))

	// Apply global middleware
	return middleware.Chain(
		mux,
		middleware.Recover(h.log),
		middleware.SecurityHeaders,
		middleware.Logger(h.log),
	)
}
