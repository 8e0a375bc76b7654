package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/processor"
	"codeberg.org/snonux/kotoba/internal/results"
	"codeberg.org/snonux/kotoba/internal/store"
)

// ServiceName is reported by the health endpoint
const ServiceName = "kotoba"

// SettingsStore persists the runtime audio settings
type SettingsStore interface {
	GetSettings(ctx context.Context, defaults store.Settings) (store.Settings, error)
	SaveSettings(ctx context.Context, settings store.Settings) error
}

// ProcessorFactory builds a processor for the given runtime settings
type ProcessorFactory func(ctx context.Context, settings store.Settings) (*processor.Processor, error)

// Config holds the server settings that do not change at runtime
type Config struct {
	AllowedOrigins []string
	DeckName       string
	NoteTypeID     int64
	// Defaults apply to settings never changed through the API
	Defaults store.Settings
}

// Server serves the HTTP API
type Server struct {
	cfg          Config
	session      *card.Session
	settings     SettingsStore
	results      *results.Manager
	newProcessor ProcessorFactory
	log          *slog.Logger

	// generateMu serialises generation runs and guards the cached processor
	generateMu        sync.Mutex
	processor         *processor.Processor
	processorSettings store.Settings
}

// NewServer creates a server. A nil logger uses slog.Default().
func NewServer(cfg Config, session *card.Session, settings SettingsStore, mgr *results.Manager, newProcessor ProcessorFactory, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:          cfg,
		session:      session,
		settings:     settings,
		results:      mgr,
		newProcessor: newProcessor,
		log:          log,
	}
}

// Router returns the HTTP handler with all routes and middleware
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Get("/config", s.getConfig)
		r.Post("/config", s.updateConfig)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.listCards)
			r.Post("/", s.createCard)
			r.Get("/{id}", s.getCard)
			r.Patch("/{id}", s.updateCard)
			r.Put("/{id}", s.replaceCard)
			r.Delete("/{id}", s.deleteCard)
		})

		r.Get("/history", s.listHistory)
		r.Delete("/history", s.clearHistory)
		r.Post("/history/{id}/restore", s.restoreCard)

		r.Post("/furigana/render", s.renderFurigana)
		r.Post("/furigana/skeleton", s.furiganaSkeleton)

		r.Post("/generate", s.generate)
		r.Get("/download/{filename}", s.download)
	})

	return r
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server shutdown completed")
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}
