package processor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/partypulse/classifier/internal/domain"
)

const (
	// maxURLLength is the maximum reasonable URL length (2048 chars is common browser limit)
	// URLs longer than this will be truncated with a warning log
	maxURLLength = 2048
	// urlPreviewLength is the maximum length for URL preview in log messages
	urlPreviewLength = 100
)

const (
	// Default poll interval
	defaultPollIntervalSeconds = 30
	defaultBatchSize           = 100
)

// ElasticsearchClient defines the interface for ES operations
type ElasticsearchClient interface {
	// QueryRawEvents queries for raw events with the given classification status
	QueryRawEvents(ctx context.Context, status string, batchSize int) ([]*domain.RawEvent, error)

	// IndexClassifiedEvent indexes a classified event
	IndexClassifiedEvent(ctx context.Context, event *domain.ClassifiedEvent) error

	// UpdateRawEventStatus updates the classification status of a raw event
	UpdateRawEventStatus(ctx context.Context, eventID string, status string, classifiedAt time.Time) error

	// BulkIndexClassifiedEvents indexes multiple classified events
	BulkIndexClassifiedEvents(ctx context.Context, events []*domain.ClassifiedEvent) error
}

// DatabaseClient defines the interface for database operations
type DatabaseClient interface {
	// SaveClassificationHistory saves a classification result to history
	SaveClassificationHistory(ctx context.Context, history *domain.ClassificationHistory) error

	// SaveClassificationHistoryBatch saves multiple classification results
	SaveClassificationHistoryBatch(ctx context.Context, histories []*domain.ClassificationHistory) error
}

// Poller polls Elasticsearch for pending events and processes them
type Poller struct {
	esClient       ElasticsearchClient
	dbClient       DatabaseClient
	batchProcessor *BatchProcessor
	logger         Logger

	batchSize    int
	pollInterval time.Duration
	running      atomic.Bool
	stopChan     chan struct{}
}

// PollerConfig holds poller configuration
type PollerConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// NewPoller creates a new poller
func NewPoller(
	esClient ElasticsearchClient,
	dbClient DatabaseClient,
	batchProcessor *BatchProcessor,
	logger Logger,
	config PollerConfig,
) *Poller {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollIntervalSeconds * time.Second
	}

	return &Poller{
		esClient:       esClient,
		dbClient:       dbClient,
		batchProcessor: batchProcessor,
		logger:         logger,
		batchSize:      config.BatchSize,
		pollInterval:   config.PollInterval,
		stopChan:       make(chan struct{}),
	}
}

// Start starts the poller
func (p *Poller) Start(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return errors.New("poller is already running")
	}

	p.logger.Info("Poller starting",
		"batch_size", p.batchSize,
		"poll_interval", p.pollInterval,
	)

	go p.run(ctx)

	return nil
}

// Stop stops the poller
func (p *Poller) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}

	p.logger.Info("Poller stopping")
	close(p.stopChan)
}

// run is the main polling loop
func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Process immediately on start
	if err := p.processPending(ctx); err != nil {
		p.logger.Error("Failed to process pending events on startup", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped due to context cancellation")
			return
		case <-p.stopChan:
			p.logger.Info("Poller stopped")
			return
		case <-ticker.C:
			if err := p.processPending(ctx); err != nil {
				p.logger.Error("Failed to process pending events", "error", err)
			}
		}
	}
}

// processPending processes all pending events
func (p *Poller) processPending(ctx context.Context) error {
	p.logger.Debug("Polling for pending events", "batch_size", p.batchSize)

	pendingEvents, err := p.esClient.QueryRawEvents(ctx, domain.StatusPending, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to query pending events: %w", err)
	}

	if len(pendingEvents) == 0 {
		p.logger.Debug("No pending events found")
		return nil
	}

	p.logger.Info("Found pending events", "count", len(pendingEvents))

	results, err := p.batchProcessor.Process(ctx, pendingEvents)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err = p.indexResults(ctx, results); err != nil {
		return fmt.Errorf("failed to index results: %w", err)
	}

	if err = p.saveHistory(ctx, results); err != nil {
		p.logger.Warn("Failed to save classification history", "error", err)
		// Don't fail the whole operation if history save fails
	}

	return nil
}

// indexResults indexes classification results to Elasticsearch
func (p *Poller) indexResults(ctx context.Context, results []*ProcessResult) error {
	classifiedEvents := make([]*domain.ClassifiedEvent, 0, len(results))
	var failedEventIDs []string

	for _, result := range results {
		if result.Error != nil {
			failedEventIDs = append(failedEventIDs, result.Raw.ID)
			if err := p.esClient.UpdateRawEventStatus(ctx, result.Raw.ID, domain.StatusFailed, time.Now()); err != nil {
				p.logger.Error("Failed to update status to failed",
					"event_id", result.Raw.ID,
					"error", err,
				)
			}
			continue
		}

		classifiedEvents = append(classifiedEvents, result.ClassifiedEvent)
	}

	if len(failedEventIDs) > 0 {
		p.logger.Warn("Some events failed classification",
			"failed_count", len(failedEventIDs),
			"failed_ids", failedEventIDs,
		)
	}

	if len(classifiedEvents) == 0 {
		return nil
	}

	p.logger.Info("Indexing classified events", "count", len(classifiedEvents))

	if err := p.esClient.BulkIndexClassifiedEvents(ctx, classifiedEvents); err != nil {
		return fmt.Errorf("bulk indexing failed: %w", err)
	}

	for _, event := range classifiedEvents {
		if err := p.esClient.UpdateRawEventStatus(ctx, event.ID, domain.StatusClassified, time.Now()); err != nil {
			p.logger.Error("Failed to update raw event status",
				"event_id", event.ID,
				"error", err,
			)
			// Continue with next event
		}
	}

	p.logger.Info("Successfully indexed classified events", "count", len(classifiedEvents))

	return nil
}

// validateURL truncates URLs beyond maxURLLength with a warning log
func (p *Poller) validateURL(url string) string {
	if len(url) <= maxURLLength {
		return url
	}

	truncated := url[:maxURLLength]

	previewLen := len(url)
	if previewLen > urlPreviewLength {
		previewLen = urlPreviewLength
	}

	p.logger.Warn("URL truncated for classification history",
		"original_length", len(url),
		"truncated_length", maxURLLength,
		"url_preview", url[:previewLen],
	)
	return truncated
}

// saveHistory saves classification results to the audit trail
func (p *Poller) saveHistory(ctx context.Context, results []*ProcessResult) error {
	histories := make([]*domain.ClassificationHistory, 0, len(results))

	for _, result := range results {
		if result.Error != nil || result.Classification == nil {
			continue
		}

		history := &domain.ClassificationHistory{
			EventID:           result.Raw.ID,
			EventURL:          p.validateURL(result.Raw.URL),
			Provider:          result.Raw.Provider,
			IsParty:           result.Classification.IsParty,
			PartySubcategory:  result.Classification.PartySubcategory,
			PartyConfidence:   result.Classification.PartyConfidence,
			PartyScore:        result.Classification.PartyScore,
			CompletenessScore: result.Classification.CompletenessScore,
			ClassifierVersion: result.Classification.ClassifierVersion,
			ProcessingTimeMs:  result.Classification.ProcessingTimeMs,
			ClassifiedAt:      result.Classification.ClassifiedAt,
		}

		histories = append(histories, history)
	}

	if len(histories) == 0 {
		return nil
	}

	p.logger.Debug("Saving classification history", "count", len(histories))

	if err := p.dbClient.SaveClassificationHistoryBatch(ctx, histories); err != nil {
		return fmt.Errorf("failed to save history batch: %w", err)
	}

	return nil
}

// IsRunning returns whether the poller is currently running
func (p *Poller) IsRunning() bool {
	return p.running.Load()
}

// GetStats returns poller statistics
func (p *Poller) GetStats() map[string]any {
	return map[string]any{
		"running":       p.running.Load(),
		"batch_size":    p.batchSize,
		"poll_interval": p.pollInterval.String(),
	}
}
