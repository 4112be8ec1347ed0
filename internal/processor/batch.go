package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/partypulse/classifier/internal/classifier"
	"github.com/partypulse/classifier/internal/domain"
)

const defaultConcurrency = 10

// BatchProcessor classifies multiple events in parallel using a worker pool
type BatchProcessor struct {
	classifier  *classifier.Classifier
	concurrency int
	logger      Logger
}

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ProcessResult holds the result of classifying a single event
type ProcessResult struct {
	Raw             *domain.RawEvent
	Classification  *domain.EventClassification
	ClassifiedEvent *domain.ClassifiedEvent
	Error           error
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(classifier *classifier.Classifier, concurrency int, logger Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &BatchProcessor{
		classifier:  classifier,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process classifies a batch of raw events using the worker pool
func (b *BatchProcessor) Process(ctx context.Context, rawEvents []*domain.RawEvent) ([]*ProcessResult, error) {
	if len(rawEvents) == 0 {
		return []*ProcessResult{}, nil
	}

	b.logger.Info("Starting batch processing",
		"batch_size", len(rawEvents),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	jobs := make(chan *domain.RawEvent, len(rawEvents))
	results := make(chan *ProcessResult, len(rawEvents))

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go b.worker(ctx, i, jobs, results, &wg)
	}

	for _, raw := range rawEvents {
		jobs <- raw
	}
	close(jobs)

	wg.Wait()
	close(results)

	processResults := make([]*ProcessResult, 0, len(rawEvents))
	for result := range results {
		processResults = append(processResults, result)
	}

	duration := time.Since(startTime)
	successCount := 0
	errorCount := 0

	for _, result := range processResults {
		if result.Error == nil {
			successCount++
		} else {
			errorCount++
		}
	}

	b.logger.Info("Batch processing complete",
		"total", len(rawEvents),
		"success", successCount,
		"errors", errorCount,
		"duration_ms", duration.Milliseconds(),
		"events_per_second", float64(len(rawEvents))/duration.Seconds(),
	)

	return processResults, nil
}

// worker classifies events from the jobs channel
func (b *BatchProcessor) worker(
	ctx context.Context,
	id int,
	jobs <-chan *domain.RawEvent,
	results chan<- *ProcessResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	b.logger.Debug("Worker started", "worker_id", id)

	for raw := range jobs {
		select {
		case <-ctx.Done():
			b.logger.Warn("Worker stopping due to context cancellation", "worker_id", id)
			return
		default:
		}

		result := b.processItem(ctx, raw)
		results <- result
	}

	b.logger.Debug("Worker finished", "worker_id", id)
}

// processItem classifies a single raw event
func (b *BatchProcessor) processItem(ctx context.Context, raw *domain.RawEvent) *ProcessResult {
	result := &ProcessResult{
		Raw: raw,
	}

	classification, err := b.classifier.Classify(ctx, raw)
	if err != nil {
		result.Error = fmt.Errorf("classification failed: %w", err)
		b.logger.Error("Failed to classify event",
			"event_id", raw.ID,
			"error", err,
		)
		return result
	}

	result.Classification = classification
	result.ClassifiedEvent = b.classifier.BuildClassifiedEvent(raw, classification)

	b.logger.Debug("Event processed successfully",
		"event_id", raw.ID,
		"is_party", classification.IsParty,
		"party_score", classification.PartyScore,
	)

	return result
}

// GetStats returns statistics about the batch processor
func (b *BatchProcessor) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"concurrency": b.concurrency,
	}
}

// SetConcurrency updates the worker pool concurrency
func (b *BatchProcessor) SetConcurrency(concurrency int) {
	if concurrency > 0 {
		b.concurrency = concurrency
		b.logger.Info("Concurrency updated", "new_concurrency", concurrency)
	}
}
