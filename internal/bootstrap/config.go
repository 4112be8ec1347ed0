// Package bootstrap wires the classifier service components together:
// configuration, logging, database, Elasticsearch, and the classifier
// pipeline itself.
package bootstrap

import (
	"fmt"
	"log"

	"github.com/partypulse/classifier/internal/config"
	"github.com/partypulse/classifier/internal/logging"
)

const defaultConfigFile = "config.yml"

// LoadConfig loads configuration. Uses defaults if file doesn't exist.
func LoadConfig() (*config.Config, error) {
	path := config.GetConfigPath(defaultConfigFile)
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("Warning: Failed to load config file (%s), using defaults: %v", path, err)
		return config.Default(), nil
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger.With(logging.String("service", cfg.Service.Name)), nil
}
