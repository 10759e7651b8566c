package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/internal/scheduler"
	"github.com/sitepulse/sitepulse/internal/server"
)

// loadEnv loads environment variables from .env files when present.
func loadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}
}

// setupGinMode configures the Gin framework mode from the environment.
func setupGinMode() {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
}

// serveCmd runs the HTTP API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server.",
	Long: `Start the long-running HTTP API for report generation.

Exposes:
- POST /api/reports        submit a report job (or reuse a stored report)
- GET  /api/jobs/:id       poll job status and progress
- GET  /api/reports/:id    fetch a compiled report
- GET  /api/reports/:id/export  download a report as JSON, CSV or PDF
- POST /api/schedules      register a recurring schedule
- GET  /api/health         liveness probe

Jobs run on an admission-controlled worker pool; when the pending queue
is full new submissions are rejected with 503 rather than queued
unboundedly. The server stops gracefully on SIGINT/SIGTERM.

Examples:
  # Listen on the default port
  sitepulse serve

  # Bind a specific interface and port
  sitepulse serve --host 127.0.0.1 --port 9090

  # JSON logs for ingestion
  sitepulse serve --log-level debug --log-json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		loadEnv()
		setupGinMode()

		if err := logger.Init(viper.GetString("log-level"), viper.GetBool("log-json"), viper.GetString("log-file")); err != nil {
			contract.LogFatal("Cannot initialize logger", err)
		}

		sched := scheduler.New(cfg, metricCollector, storeManager)
		defer sched.Shutdown()

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, sched, storeManager)
		if err := srv.Run(ctx); err != nil {
			contract.LogFatal("Server terminated", err)
		}
	},
}
