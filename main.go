package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flypoints/internal/config"
	"flypoints/internal/metrics"
	"flypoints/internal/scraper"
	"flypoints/internal/server"
	"flypoints/internal/snapshots"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("FLYPOINTS_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use basic logging for config errors since logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	scrapeTimeout := time.Duration(cfg.ScrapeTimeout) * time.Minute
	store := snapshots.NewStore(cfg.SnapshotDir)
	spicejet := scraper.NewRunner(cfg.PythonBin, cfg.SpiceJetScript, "SpiceJet", scrapeTimeout)
	spicejetIntl := scraper.NewRunner(cfg.PythonBin, cfg.SpiceJetIntlScript, "SpiceJet", scrapeTimeout)
	etihad := scraper.NewRunner(cfg.PythonBin, cfg.EtihadScript, "Etihad Airways", scrapeTimeout)

	m := metrics.New(prometheus.DefaultRegisterer)
	srv := server.New(store, spicejet, spicejetIntl, etihad, m, prometheus.DefaultGatherer)

	httpServer := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: srv.Handler(),
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting flight search API", "addr", cfg.ServerAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	slog.Info("Received interrupt signal, shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	slog.Info("Shutdown complete")
}
