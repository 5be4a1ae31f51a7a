package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// StationDirectory answers station queries and hands out private directories for presenters
type StationDirectory interface {
	models.StationFinder
	Directory(ctx context.Context) (*station.Directory, error)
}

var _ StationDirectory = (*station.DirectoryStationFinder)(nil)

type Server struct {
	cfg      *config.Config
	finder   StationDirectory
	sessions *Sessions
	hub      *Hub
	limiter  *RateLimiter
	upgrader websocket.Upgrader
	router   *chi.Mux
}

func NewServer(cfg *config.Config, finder StationDirectory) (*Server, error) {
	hub := NewHub()
	sessions, err := NewSessions(config.GetCacheConfig(), hub)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		finder:   finder,
		sessions: sessions,
		hub:      hub,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	static, _ := fs.Sub(assetsFS, "assets/static")
	r.Get("/", s.handlePage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api", func(api chi.Router) {
		if s.limiter != nil {
			api.Use(s.limiter.Middleware)
		}

		api.Post("/session", s.handleSession)

		api.Route("/stations", func(sr chi.Router) {
			sr.Get("/", s.handleStations)
			sr.Get("/{name}", s.handleStation)
			sr.Get("/{name}/labels/{file}", s.handleLabel)
		})

		api.Route("/views/{layout}", func(vr chi.Router) {
			vr.Get("/", s.handleView)
			vr.Post("/locate", s.handleLocate)
			vr.Post("/locate/{token}", s.handleLocateAnswer)
			vr.Post("/stations/{name}/select", s.handleSelectStation)
			vr.Post("/panels/{panel}/open", s.handleOpenPanel)
			vr.Post("/panels/close", s.handleClosePanels)
			vr.Post("/scanner/open", s.handleOpenScanner)
			vr.Post("/scanner/decoded", s.handleDecoded)
			vr.Post("/scanner/failed", s.handleScannerFailed)
			vr.Post("/scanner/close", s.handleCloseScanner)
			vr.Post("/return", s.handleReturn)
			vr.Post("/return/confirm", s.handleConfirmReturn)
		})
	})

	return r
}

// Start runs the websocket hub and rate limiter sweeps until ctx is done
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.HTTPTimeout,
		WriteTimeout: s.cfg.HTTPTimeout,
		IdleTimeout:  30 * time.Second,
	}

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.Start(bgCtx)

	errChan := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("variant", s.cfg.LayoutVariant).
			Str("source", s.cfg.DirectorySource).
			Msg("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Str("reason", ctx.Err().Error()).Msg("Shutting down HTTP server")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		err := srv.Shutdown(shutdownCtx)
		s.sessions.Close()
		if err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
			return err
		}
		return nil

	case err := <-errChan:
		s.sessions.Close()
		return err
	}
}
