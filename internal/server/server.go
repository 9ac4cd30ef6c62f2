// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/valpere/ScrapeCache/internal/config"
	"github.com/valpere/ScrapeCache/internal/monitoring"
	"github.com/valpere/ScrapeCache/internal/scraper"
	"github.com/valpere/ScrapeCache/internal/utils"
)

// Options configures a Server. Zero values are usable.
type Options struct {
	Logger      utils.Logger
	Metrics     *monitoring.MetricsManager
	MetricsPath string
	Version     string
}

// Server exposes the engine over HTTP.
type Server struct {
	engine  *scraper.Engine
	logger  utils.Logger
	metrics *monitoring.MetricsManager
	health  *monitoring.HealthManager
	router  *mux.Router
}

// New builds the router for engine.
func New(engine *scraper.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = config.DefaultMetricsPath
	}

	s := &Server{
		engine:  engine,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		health:  monitoring.NewHealthManager(opts.Version),
		router:  mux.NewRouter(),
	}
	s.health.RegisterCheck("cache", true, s.cacheCheck)
	s.routes(opts.MetricsPath)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) cacheCheck(context.Context) monitoring.HealthCheckResult {
	store := s.engine.Cache()
	stats := store.Stats()
	return monitoring.HealthCheckResult{
		Status: monitoring.HealthStatusHealthy,
		Metadata: map[string]interface{}{
			"entries": stats.Entries,
			"hits":    stats.Hits,
			"misses":  stats.Misses,
			"ttl":     store.TTL().String(),
		},
	}
}
