// Package ingestion maps provider-specific event payloads into the
// canonical RawEvent shape. Each upstream provider gets an explicit typed
// payload struct and one adapter; untyped blobs never reach the classifier.
package ingestion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/partypulse/classifier/internal/domain"
)

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Adapter parses one provider's payload format into RawEvents.
type Adapter interface {
	// Provider returns the canonical provider name ("ticketmaster", ...)
	Provider() string

	// Parse maps a raw JSON payload into normalized events. Events with
	// no usable identity (no ID and no title) are skipped, not errored.
	Parse(payload []byte) ([]*domain.RawEvent, error)
}

// Registry holds the known provider adapters.
type Registry struct {
	adapters map[string]Adapter
	logger   Logger
}

// NewRegistry creates a registry with the default adapters registered.
func NewRegistry(logger Logger) *Registry {
	r := &Registry{
		adapters: make(map[string]Adapter),
		logger:   logger,
	}
	r.Register(NewTicketmasterAdapter())
	r.Register(NewSeatGeekAdapter())
	r.Register(NewPredictHQAdapter())
	return r
}

// Register adds or replaces an adapter under its provider name.
func (r *Registry) Register(adapter Adapter) {
	r.adapters[adapter.Provider()] = adapter
}

// Get returns the adapter for a provider name.
func (r *Registry) Get(provider string) (Adapter, error) {
	adapter, ok := r.adapters[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	return adapter, nil
}

// Providers returns the registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse looks up the provider adapter and parses the payload.
func (r *Registry) Parse(provider string, payload []byte) ([]*domain.RawEvent, error) {
	adapter, err := r.Get(provider)
	if err != nil {
		return nil, err
	}

	events, err := adapter.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("parsing %s payload: %w", adapter.Provider(), err)
	}

	if r.logger != nil {
		r.logger.Debug("Parsed provider payload",
			"provider", adapter.Provider(),
			"events", len(events),
		)
	}

	return events, nil
}

// normalizeClockTime extracts an "HH:MM" start time from provider time
// strings. Unparseable values come back empty; the classifier treats an
// empty time as "no temporal evidence".
func normalizeClockTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	// ISO datetime: take the clock portion
	if idx := strings.IndexByte(value, 'T'); idx >= 0 {
		value = value[idx+1:]
	}

	// "HH:MM:SS" or "HH:MM"
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return ""
	}
	hhmm := parts[0] + ":" + parts[1]
	if _, err := time.Parse("15:04", hhmm); err != nil {
		return ""
	}
	return hhmm
}

// newRawEvent builds the canonical event with shared bookkeeping applied.
func newRawEvent(provider string) *domain.RawEvent {
	return &domain.RawEvent{
		Provider:             provider,
		FetchedAt:            time.Now().UTC(),
		ClassificationStatus: domain.StatusPending,
	}
}
