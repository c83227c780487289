// Holdings Viewer - upload a custodian export and browse it as a cross-tab
// Entry point for the web server
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findosh/holdings/internal/config"
	"github.com/findosh/holdings/internal/handlers"
	"github.com/findosh/holdings/internal/logging"
	"github.com/findosh/holdings/internal/middleware"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/findosh/holdings/internal/services/importer"
	"github.com/findosh/holdings/internal/services/session"
	"github.com/findosh/holdings/internal/storage"
	"github.com/findosh/holdings/web"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	sessionRepo := storage.NewSessionRepository(db)
	uploadRepo := storage.NewUploadRepository(db)

	// Initialize services
	columns, err := analytics.ParseColumnMode(cfg.PivotColumns)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid pivot columns")
	}
	analyticsService := analytics.NewService(models.NewCategoryPolicy(cfg.IntlEquityLabel), analytics.Options{
		Columns:         columns,
		DropNetZeroRows: cfg.DropNetZeroRows,
	})
	importerService := importer.NewService(cfg.MaxUploadBytes(), log)
	sessionService := session.NewService(cfg.SecretKey, cfg.SessionDuration, sessionRepo, uploadRepo, log)

	templates, err := fs.Sub(web.TemplatesFS, "templates")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load static assets")
	}

	// Initialize handlers
	h, err := handlers.New(cfg, templates, log, db, importerService, sessionService, analyticsService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	sessionMiddleware := middleware.NewSession(sessionService, cfg.IsProduction(), log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(sessionMiddleware, static),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Start server
	g.Go(func() error {
		log.Info().
			Str("addr", "http://localhost"+srv.Addr).
			Str("environment", cfg.Environment).
			Str("pivot_columns", string(columns)).
			Msg("Holdings server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}
