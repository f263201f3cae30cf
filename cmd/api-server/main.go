package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sungwon/mailvet/internal/api"
	"github.com/sungwon/mailvet/internal/auth"
	"github.com/sungwon/mailvet/internal/config"
	"github.com/sungwon/mailvet/internal/jobs"
	"github.com/sungwon/mailvet/internal/logger"
	"github.com/sungwon/mailvet/internal/reportstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewFromConfig(logger.LoggingConfig{
		Level:     cfg.Logging.Level,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	log.Info().Msg("starting API server")

	// Initialize job registry
	jobStore, err := jobs.New(jobs.Config{
		Backend:   cfg.Jobs.Backend,
		RedisAddr: cfg.Jobs.RedisAddr,
		RedisDB:   cfg.Jobs.RedisDB,
		TTL:       cfg.Jobs.TTL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize job store")
	}
	log.Info().Str("backend", cfg.Jobs.Backend).Msg("job store initialized")

	// Redis-backed registries get a readiness check; memory needs none.
	var pinger api.Pinger
	if rs, ok := jobStore.(*jobs.RedisStore); ok {
		pinger = rs
	}

	// Initialize report storage
	reports, err := reportstore.New(reportstore.Config{
		Type:       cfg.Reports.Type,
		Path:       cfg.Reports.Path,
		S3Bucket:   cfg.Reports.S3Bucket,
		S3Prefix:   cfg.Reports.S3Prefix,
		S3Endpoint: cfg.Reports.S3Endpoint,
		S3Region:   cfg.Reports.S3Region,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report store")
	}
	log.Info().Str("type", cfg.Reports.Type).Msg("report store initialized")

	// API keys
	keys := auth.NewKeychain(cfg.Auth.KeyHashes)
	if !keys.Enabled() {
		log.Warn().Msg("no API keys configured, authentication is disabled; set auth.key_hashes in production")
	}

	svc := api.NewService(cfg.Verify, jobStore, reports, log)
	router := api.NewRouter(svc, keys, pinger, log)

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	// Graceful shutdown with 30-second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
