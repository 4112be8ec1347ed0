// Command httpd runs the classifier HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/partypulse/classifier/internal/bootstrap"
	"github.com/partypulse/classifier/internal/logging"
)

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

	logger.Info("Starting classifier HTTP server",
		logging.Int("port", cfg.Service.Port),
		logging.Bool("debug", cfg.Service.Debug),
	)

	components, err := bootstrap.NewHTTPComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize components", logging.Error(err))
		os.Exit(1)
	}
	defer func() { _ = components.DB.Close() }()

	if err := components.Server.RunWithGracefulShutdown(context.Background()); err != nil {
		logger.Error("Server error", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
