// Package server assembles the HTTP API.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/qa"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Version  string
	Timeout  time.Duration // per-request timeout for non-streaming routes
	AllowAll bool          // allow all CORS origins (dev mode)
}

// Server serves the document and query API.
type Server struct {
	cfg        Config
	documents  *ingest.Service
	composer   *qa.Composer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server routing to the given services.
func New(cfg Config, documents *ingest.Service, composer *qa.Composer) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	s := &Server{
		cfg:       cfg,
		documents: documents,
		composer:  composer,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	health := s.handleHealth()
	r.Get("/", health)
	r.Get("/health", health)
	r.Get("/healthz", health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Timeout))
		if s.documents != nil {
			ingest.RegisterRoutes(r, s.documents)
		}
		if s.composer != nil {
			qa.RegisterRoutes(r, s.composer)
		}
	})
	if s.composer != nil {
		qa.RegisterSocket(r, s.composer)
	}

	return r
}

func (s *Server) handleHealth() http.HandlerFunc {
	body := fmt.Sprintf(`{"status":"healthy","version":%q}`, s.cfg.Version)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("docqa server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
