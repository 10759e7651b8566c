// Package server exposes the report pipeline over HTTP. The handlers
// stay thin: every operation delegates to the scheduler and the stores,
// so the API, the CLI and the MCP surface share one behavior.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/internal/scheduler"
)

// Per-client request budget for the API. Report generation is the
// expensive path and the scheduler already bounds it, so the limiter
// only has to stop accidental hammering.
const (
	apiRequestsPerSecond = 5
	apiBurst             = 10
)

const shutdownGrace = 10 * time.Second

// Server wires the HTTP API on top of a running scheduler.
type Server struct {
	cfg   *contract.Config
	sched *scheduler.Scheduler
	mgr   contract.StoreManager
}

// New builds a server around an already-started scheduler.
func New(cfg *contract.Config, sched *scheduler.Scheduler, mgr contract.StoreManager) *Server {
	return &Server{cfg: cfg, sched: sched, mgr: mgr}
}

// Router assembles the gin engine with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(recoveryMiddleware())
	r.Use(requestLogMiddleware())
	r.Use(corsMiddleware())
	r.Use(newClientRateLimiter(apiRequestsPerSecond, apiBurst).middleware())

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/reports", s.handleSubmitReport)
		api.GET("/jobs/:id", s.handleJobStatus)
		api.GET("/reports/:id", s.handleGetReport)
		api.GET("/reports/:id/export", s.handleExportReport)
		api.POST("/schedules", s.handleCreateSchedule)
	}
	return r
}

// Run serves the API until the context is cancelled, then drains
// in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.ServerHost, s.cfg.ServerPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Log.WithField("addr", addr).Info("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Log.Info("http server stopped")
	return nil
}
