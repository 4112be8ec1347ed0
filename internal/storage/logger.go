package storage

import (
	"github.com/partypulse/classifier/internal/logging"
)

// Logger defines the logging interface for storage adapters
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// NewComponentLogger creates a logger with a structured "component" field
// for identifying the subsystem (e.g., "processor").
func NewComponentLogger(component string) (Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:  "info",
		Format: "json",
	})
	if err != nil {
		return nil, err
	}
	return logging.NewAdapter(logger.With(logging.String("component", component))), nil
}
