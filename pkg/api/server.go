// Package api serves a read-only HTTP view of the task store.
//
// Routes live under /api/v1 (health, tasks, task by reference, summaries) and
// Prometheus metrics are exposed on /metrics.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	metricsRefreshInterval = 30 * time.Second
	shutdownTimeout        = 5 * time.Second
)

// Routes builds the router with all routes configured
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/tasks", s.metrics.InstrumentHandler("GET", "/api/v1/tasks", s.handleListTasks))
		r.Get("/tasks/{ref}", s.metrics.InstrumentHandler("GET", "/api/v1/tasks/{ref}", s.handleGetTask))

		r.Get("/summary", s.metrics.InstrumentHandler("GET", "/api/v1/summary", s.handleSummary))
		r.Get("/summary/basic", s.metrics.InstrumentHandler("GET", "/api/v1/summary/basic", s.handleBasicSummary))
	})

	return r
}

// startMetricsUpdater refreshes the task gauges until ctx is done
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.refreshTaskMetrics(); err != nil {
			s.log.WithError(err).Debug("task metrics not refreshed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, open StoreOpener, config ServerConfig, logger logrus.FieldLogger) error {
	metrics := NewMetrics(prometheus.NewRegistry())
	server := NewServer(open, config, metrics, logger)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(config.Bind, strconv.Itoa(config.Port)),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	updaterCtx, stopUpdater := context.WithCancel(ctx)
	defer stopUpdater()
	go server.startMetricsUpdater(updaterCtx, metricsRefreshInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", httpServer.Addr).Info("starting progress API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down progress API server")
		return httpServer.Shutdown(shutdownCtx)
	}
}
