// Command processor runs the polling classifier pipeline: it drains
// pending raw events from Elasticsearch, classifies them, indexes the
// results, and records classification history in PostgreSQL.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/partypulse/classifier/internal/bootstrap"
	"github.com/partypulse/classifier/internal/logging"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting classifier processor",
		logging.String("elasticsearch_url", cfg.Elasticsearch.URL),
		logging.Duration("poll_interval", cfg.Service.PollInterval),
		logging.Int("batch_size", cfg.Service.BatchSize),
		logging.Int("concurrency", cfg.Service.Concurrency),
	)

	components, err := bootstrap.NewProcessorComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize components", logging.Error(err))
		os.Exit(1)
	}
	defer func() { _ = components.DB.Close() }()

	ctx := context.Background()
	if err := components.Poller.Start(ctx); err != nil {
		logger.Error("Failed to start poller", logging.Error(err))
		os.Exit(1)
	}

	metricsServer := startMetricsServer(cfg.Service.Port, components.Telemetry.Handler(), logger)

	logger.Info("Processor started, polling for pending events")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", logging.String("signal", sig.String()))

	components.Poller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.HTTPShutdownTimeout())
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Metrics server shutdown failed", logging.Error(err))
	}

	logger.Info("Processor stopped successfully")
}

// startMetricsServer exposes /metrics and /health on the service port so the
// processor can be scraped and probed while it polls in the background.
func startMetricsServer(port int, metricsHandler http.Handler, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"classifier-processor"}`))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", logging.Error(err))
		}
	}()

	return server
}
