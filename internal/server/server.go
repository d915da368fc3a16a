// Package server provides the HTTP API for Ronbun.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/ronbun/internal/arxiv"
	"github.com/hyperjump/ronbun/internal/config"
	"github.com/hyperjump/ronbun/internal/related"
	"github.com/hyperjump/ronbun/internal/review"
	"github.com/hyperjump/ronbun/internal/session"
)

// Server is the HTTP server for the Ronbun API.
type Server struct {
	engine   *review.Engine
	sessions *session.Store
	arxiv    *arxiv.Client
	related  *related.Service
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *review.Engine,
	sessions *session.Store,
	arxivClient *arxiv.Client,
	relatedSvc *related.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   engine,
		sessions: sessions,
		arxiv:    arxivClient,
		related:  relatedSvc,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/papers/upload", s.handleUploadIndexed)
		r.Post("/papers/{id}/qa", s.handleAskIndexed)
		r.Delete("/papers/{id}", s.handleDeleteSession)
		r.Post("/askabout/upload", s.handleUploadFullText)
		r.Post("/askabout/{id}/qa", s.handleAskFullText)
		r.Delete("/askabout/{id}", s.handleDeleteSession)
		r.Post("/citations", s.handleCitation)
		r.Get("/related", s.handleRelated)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
