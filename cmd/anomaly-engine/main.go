package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/and3rn3t/net-traffic-sub002/internal/api"
	"github.com/and3rn3t/net-traffic-sub002/internal/config"
	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
	"github.com/and3rn3t/net-traffic-sub002/internal/metrics"
	"github.com/and3rn3t/net-traffic-sub002/internal/natsio"
	"github.com/and3rn3t/net-traffic-sub002/internal/store"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting anomaly detection engine")

	// Load configuration from environment
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Configuration loaded",
		"http_addr", cfg.HTTPAddr,
		"nats_url", cfg.NATSURL,
		"snapshot_subject", cfg.SnapshotSubject,
		"findings_subject", cfg.FindingsSubject,
		"max_findings", cfg.MaxFindings,
		"dedupe_cap", cfg.DedupeCap,
		"thresholds_file", cfg.ThresholdsFile)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to NATS; the service still serves HTTP-only detection when
	// NATS is unreachable.
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logger.Warn("Failed to connect to NATS, running HTTP-only", "error", err)
		nc = nil
	} else {
		defer nc.Close()
		logger.Info("Connected to NATS")
	}

	// Create metrics
	prometheusMetrics := metrics.NewMetrics()

	// Create detection engine
	engine := detect.NewEngine(cfg.Thresholds, logger, detect.WithMetrics(prometheusMetrics))

	// Create finding store
	findingStore := store.NewMemoryStore(cfg.MaxFindings, cfg.DedupeCap,
		time.Duration(cfg.DedupeCooldownSec)*time.Second)
	logger.Info("Finding store initialized", "max_findings", cfg.MaxFindings, "dedupe_cap", cfg.DedupeCap)

	// Apply live threshold updates to the engine
	thresholdManager := config.NewManager(nc, cfg.ConfigSubject, cfg.Thresholds, logger)
	thresholdManager.Subscribe(func(th detect.Thresholds) {
		logger.Info("Applying updated thresholds to engine")
		engine.SetThresholds(th)
	})
	if err := thresholdManager.Start(ctx); err != nil {
		logger.Error("Failed to start threshold manager", "error", err)
		os.Exit(1)
	}

	// Create HTTP API
	httpAPI := api.NewHTTPAPI(engine, findingStore, nc, logger)
	mux := http.NewServeMux()
	httpAPI.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	// Start NATS snapshot subscriber
	if nc != nil {
		publisher := natsio.NewPublisher(nc, cfg.FindingsSubject, logger)
		subscriber := natsio.NewSubscriber(nc, engine, findingStore, publisher,
			cfg.SnapshotSubject, "anomaly-engine", prometheusMetrics, logger)

		go func() {
			logger.Info("Starting snapshot subscriber")
			if err := subscriber.Subscribe(ctx); err != nil {
				logger.Error("Snapshot subscriber error", "error", err)
			}
		}()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Anomaly detection engine started successfully")
	<-sigChan

	logger.Info("Shutting down anomaly detection engine...")

	// Cancel context to stop the subscriber and threshold manager
	cancel()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("Anomaly detection engine stopped")
}
