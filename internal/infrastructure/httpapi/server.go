// Package httpapi exposes the match subsystem over HTTP for the
// surrounding platform.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"resmatch/internal/bootstrap/config"
	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/errs"
	matchusecase "resmatch/internal/usecase/match"
)

type Server struct {
	cfg         config.HTTPConfig
	service     *matchusecase.Service
	invalidator *matchusecase.InvalidationCoordinator
	metrics     http.Handler

	httpServer *http.Server
}

func NewServer(cfg config.HTTPConfig, service *matchusecase.Service, invalidator *matchusecase.InvalidationCoordinator, metricsHandler http.Handler) *Server {
	return &Server{
		cfg:         cfg,
		service:     service,
		invalidator: invalidator,
		metrics:     metricsHandler,
	}
}

func (s *Server) router(baseCtx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(baseCtx))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/matches/{studentID}/{projectID}", s.handleGetScore)
		r.Get("/matches/{studentID}/{projectID}/snapshot", s.handleGetSnapshot)
		r.Get("/students/{studentID}/recommendations", s.handleStudentRecommendations)
		r.Get("/projects/{projectID}/candidates", s.handleProjectCandidates)

		r.Post("/internal/invalidate/student/{studentID}", s.handleInvalidateStudent)
		r.Post("/internal/invalidate/project/{projectID}", s.handleInvalidateProject)
	})

	return r
}

// Start binds the listener and serves in the background until Stop.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.service == nil {
		return errors.New("match service is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "httpapi"))

	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router(logCtx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info(logCtx, "http server listening", slog.String("addr", s.cfg.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(logCtx, "http server terminated", slog.Any("err", errs.Loggable(err)))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errs.Wrap(err, "shutdown http server")
	}
	return nil
}
