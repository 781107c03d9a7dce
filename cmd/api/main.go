// Package main starts an HTTP server that answers questions about a loaded
// coboundary graph: statistics, components and edge verification. It uses the
// internal handlers package to return JSON responses.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cfgraph/core/cmd/api/middleware"
	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/config"
	"github.com/cfgraph/core/internal/handlers"
	"github.com/cfgraph/core/internal/logging"
	"github.com/cfgraph/core/internal/metrics"
	"github.com/cfgraph/core/internal/parser"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := run(getEnv("CFGRAPH_CONFIG", "cfgraph.yaml")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ds, err := parser.LoadDataset(cfg.Data.Graph, cfg.Data.Formulas, cfg.Data.Masters)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	verifier := analysis.NewVerifier(cfg.Verifier, analysis.WithLogger(logger))
	srv := handlers.NewServer(ds, cfg.Corrections, verifier, logger, handlers.WithMaxBodyBytes(cfg.Server.MaxBodyBytes))

	stats := srv.Stats()
	metrics.SetDataset(stats.TotalNodes, stats.TotalEdges, stats.ProvenEdges)
	logger.Info("dataset loaded",
		zap.String("graph", cfg.Data.Graph),
		zap.Int("nodes", stats.TotalNodes),
		zap.Int("edges", stats.TotalEdges),
		zap.Int("proven_edges", stats.ProvenEdges),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           setupRouter(srv, cfg.Server.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func setupRouter(srv *handlers.Server, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.HealthHandler)
	mux.HandleFunc("/stats", srv.StatsHandler)
	mux.HandleFunc("/components", srv.ComponentsHandler)
	mux.HandleFunc("/verify", srv.VerifyHandler)
	mux.HandleFunc("/analyze", srv.AnalyzeHandler)
	mux.Handle("/metrics", metrics.Handler())
	return middleware.Cors(allowedOrigin)(mux)
}
