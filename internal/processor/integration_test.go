//nolint:testpackage // Testing internal processor requires same package access
package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/partypulse/classifier/internal/classifier"
	"github.com/partypulse/classifier/internal/domain"
)

// mockLogger implements the Logger interface for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, keysAndValues ...any) {}
func (m *mockLogger) Info(msg string, keysAndValues ...any)  {}
func (m *mockLogger) Warn(msg string, keysAndValues ...any)  {}
func (m *mockLogger) Error(msg string, keysAndValues ...any) {}

// mockReputationDB implements ProviderReputationDB for testing
type mockReputationDB struct {
	mu        sync.RWMutex
	providers map[string]*domain.ProviderReputation
}

func newMockReputationDB() *mockReputationDB {
	return &mockReputationDB{
		providers: make(map[string]*domain.ProviderReputation),
	}
}

func (m *mockReputationDB) GetProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rep, ok := m.providers[provider]
	if !ok {
		return nil, errors.New("provider not found")
	}
	return rep, nil
}

func (m *mockReputationDB) CreateProvider(ctx context.Context, rep *domain.ProviderReputation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers[rep.Provider] = rep
	return nil
}

func (m *mockReputationDB) UpdateProvider(ctx context.Context, rep *domain.ProviderReputation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers[rep.Provider] = rep
	return nil
}

func (m *mockReputationDB) GetOrCreateProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rep, ok := m.providers[provider]
	if !ok {
		rep = &domain.ProviderReputation{
			Provider:        provider,
			ReputationScore: 50,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		m.providers[provider] = rep
	}
	return rep, nil
}

// createTestClassifier creates a classifier with all dependencies for testing
func createTestClassifier(logger *mockLogger) *classifier.Classifier {
	rules := []*domain.TagRule{
		{
			ID:            1,
			RuleName:      "toronto_promo",
			Tag:           "toronto",
			Keywords:      []string{"toronto", "downtown toronto", "6ix"},
			MinConfidence: 0.2,
			Enabled:       true,
			Priority:      1,
		},
		{
			ID:            2,
			RuleName:      "free_entry",
			Tag:           "free-entry",
			Keywords:      []string{"free entry", "no cover", "free admission"},
			MinConfidence: 0.2,
			Enabled:       true,
			Priority:      1,
		},
	}

	repDB := newMockReputationDB()

	config := classifier.Config{
		Version:           "1.0.0",
		UpdateProviderRep: true,
		ReputationConfig: classifier.ProviderReputationConfig{
			DefaultScore:               50,
			UpdateOnEachClassification: true,
			JunkThreshold:              30,
			MinEventsForTrust:          10,
			ReputationDecayRate:        0.1,
		},
	}

	return classifier.NewClassifier(logger, rules, repDB, nil, config)
}

// mockESClient implements ElasticsearchClient for integration testing
type mockESClient struct {
	rawEvents         []*domain.RawEvent
	classifiedEvents  []*domain.ClassifiedEvent
	statusUpdates     map[string]string
	queryError        error
	bulkIndexError    error
	updateStatusError error
}

func newMockESClient() *mockESClient {
	return &mockESClient{
		rawEvents:        make([]*domain.RawEvent, 0),
		classifiedEvents: make([]*domain.ClassifiedEvent, 0),
		statusUpdates:    make(map[string]string),
	}
}

func (m *mockESClient) QueryRawEvents(ctx context.Context, status string, batchSize int) ([]*domain.RawEvent, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}

	var results []*domain.RawEvent
	for _, raw := range m.rawEvents {
		if raw.ClassificationStatus == status && len(results) < batchSize {
			results = append(results, raw)
		}
	}
	return results, nil
}

func (m *mockESClient) IndexClassifiedEvent(ctx context.Context, event *domain.ClassifiedEvent) error {
	m.classifiedEvents = append(m.classifiedEvents, event)
	return nil
}

func (m *mockESClient) UpdateRawEventStatus(ctx context.Context, eventID, status string, classifiedAt time.Time) error {
	if m.updateStatusError != nil {
		return m.updateStatusError
	}
	m.statusUpdates[eventID] = status
	return nil
}

func (m *mockESClient) BulkIndexClassifiedEvents(ctx context.Context, events []*domain.ClassifiedEvent) error {
	if m.bulkIndexError != nil {
		return m.bulkIndexError
	}
	m.classifiedEvents = append(m.classifiedEvents, events...)
	return nil
}

// mockDBClient implements DatabaseClient for integration testing
type mockDBClient struct {
	histories      []*domain.ClassificationHistory
	saveBatchError error
}

func newMockDBClient() *mockDBClient {
	return &mockDBClient{
		histories: make([]*domain.ClassificationHistory, 0),
	}
}

func (m *mockDBClient) SaveClassificationHistory(ctx context.Context, history *domain.ClassificationHistory) error {
	m.histories = append(m.histories, history)
	return nil
}

func (m *mockDBClient) SaveClassificationHistoryBatch(ctx context.Context, histories []*domain.ClassificationHistory) error {
	if m.saveBatchError != nil {
		return m.saveBatchError
	}
	m.histories = append(m.histories, histories...)
	return nil
}

// setupTestEnvironment creates test mocks and pending events
func setupTestEnvironment() (*mockESClient, *mockDBClient, *mockLogger) {
	logger := &mockLogger{}
	esClient := newMockESClient()
	dbClient := newMockDBClient()

	esClient.rawEvents = []*domain.RawEvent{
		{
			ID:                   "test-1",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/1",
			Title:                "Saturday Night Rave at Warehouse 9",
			Description:          "DJ sets all night with an open bar and a packed dance floor",
			VenueName:            "Warehouse 9 Nightclub",
			StartTime:            "23:00",
			Date:                 "2026-09-12",
			City:                 "Toronto",
			FetchedAt:            time.Now().Add(-time.Hour),
			ClassificationStatus: domain.StatusPending,
		},
		{
			ID:                   "test-2",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/2",
			Title:                "Quarterly earnings webinar",
			Description:          "A presentation of quarterly results for investors",
			StartTime:            "14:00",
			FetchedAt:            time.Now().Add(-time.Hour),
			ClassificationStatus: domain.StatusPending,
		},
	}

	return esClient, dbClient, logger
}

// verifyPartyEvent verifies party classification results
func verifyPartyEvent(t *testing.T, events []*domain.ClassifiedEvent) {
	var party *domain.ClassifiedEvent
	for _, event := range events {
		if event.ID == "test-1" {
			party = event
			break
		}
	}
	if party == nil {
		t.Fatal("expected test-1 in classified events")
	}
	if !party.IsParty {
		t.Error("expected rave event to be classified as a party")
	}
	if party.Category != domain.CategoryParty {
		t.Errorf("expected category party, got %s", party.Category)
	}
	if party.PartyScore <= 0 {
		t.Errorf("expected positive party score, got %d", party.PartyScore)
	}
}

// verifyNonPartyEvent verifies the webinar stayed a plain event
func verifyNonPartyEvent(t *testing.T, events []*domain.ClassifiedEvent) {
	for _, event := range events {
		if event.ID != "test-2" {
			continue
		}
		if event.IsParty {
			t.Error("expected webinar NOT to be classified as a party")
		}
		if event.Category != domain.CategoryEvent {
			t.Errorf("expected category event, got %s", event.Category)
		}
		return
	}
	t.Fatal("expected test-2 in classified events")
}

// verifyStatusUpdates verifies that status updates were applied
func verifyStatusUpdates(t *testing.T, esClient *mockESClient) {
	if status, ok := esClient.statusUpdates["test-1"]; !ok || status != domain.StatusClassified {
		t.Errorf("expected test-1 status to be classified, got %s", status)
	}
	if status, ok := esClient.statusUpdates["test-2"]; !ok || status != domain.StatusClassified {
		t.Errorf("expected test-2 status to be classified, got %s", status)
	}
}

// TestIntegration_EndToEndClassificationFlow tests the complete pipeline
func TestIntegration_EndToEndClassificationFlow(t *testing.T) {
	esClient, dbClient, logger := setupTestEnvironment()

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)

	pollerConfig := PollerConfig{
		BatchSize:    10,
		PollInterval: 30 * time.Second,
	}
	poller := NewPoller(esClient, dbClient, batchProcessor, logger, pollerConfig)

	ctx := context.Background()
	if err := poller.processPending(ctx); err != nil {
		t.Fatalf("processPending failed: %v", err)
	}

	if len(esClient.classifiedEvents) != 2 {
		t.Errorf("expected 2 classified events, got %d", len(esClient.classifiedEvents))
	}

	verifyPartyEvent(t, esClient.classifiedEvents)
	verifyNonPartyEvent(t, esClient.classifiedEvents)
	verifyStatusUpdates(t, esClient)

	if len(dbClient.histories) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(dbClient.histories))
	}

	// Verify history content
	for _, history := range dbClient.histories {
		if history.EventID == "" {
			t.Error("expected history to have event_id")
		}
		if history.Provider == "" {
			t.Error("expected history to have provider")
		}
		if history.ClassifierVersion == "" {
			t.Error("expected history to have classifier_version")
		}
	}
}

// TestIntegration_BatchProcessingWithErrors tests error handling in pipeline
func TestIntegration_BatchProcessingWithErrors(t *testing.T) {
	logger := &mockLogger{}
	esClient := newMockESClient()
	dbClient := newMockDBClient()

	esClient.rawEvents = []*domain.RawEvent{
		{
			ID:                   "test-1",
			Provider:             "seatgeek",
			URL:                  "https://example.com/events/1",
			Title:                "Rooftop day party",
			Description:          "Pool party with a DJ lineup",
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		},
	}

	// Simulate bulk indexing error
	esClient.bulkIndexError = errors.New("ES indexing failed")

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)
	pollerConfig := PollerConfig{BatchSize: 10, PollInterval: 30 * time.Second}
	poller := NewPoller(esClient, dbClient, batchProcessor, logger, pollerConfig)

	// Process should fail due to indexing error
	ctx := context.Background()
	err := poller.processPending(ctx)

	if err == nil {
		t.Fatal("expected error due to bulk indexing failure")
	}

	// Verify no classified events were indexed
	if len(esClient.classifiedEvents) > 0 {
		t.Errorf("expected no classified events due to error, got %d", len(esClient.classifiedEvents))
	}
}

// TestIntegration_PollerStartStop tests poller lifecycle
func TestIntegration_PollerStartStop(t *testing.T) {
	logger := &mockLogger{}
	esClient := newMockESClient()
	dbClient := newMockDBClient()

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)
	pollerConfig := PollerConfig{
		BatchSize:    10,
		PollInterval: 100 * time.Millisecond, // Short interval for testing
	}
	poller := NewPoller(esClient, dbClient, batchProcessor, logger, pollerConfig)

	ctx := context.Background()
	err := poller.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start poller: %v", err)
	}

	if !poller.IsRunning() {
		t.Error("expected poller to be running after Start()")
	}

	// Starting again should fail
	err = poller.Start(ctx)
	if err == nil {
		t.Error("expected error when starting already running poller")
	}

	// Let it run for a bit
	time.Sleep(250 * time.Millisecond)

	poller.Stop()
	time.Sleep(50 * time.Millisecond)

	if poller.IsRunning() {
		t.Error("expected poller to be stopped after Stop()")
	}
}

// TestIntegration_RateLimitedProcessing tests rate limiting in pipeline
func TestIntegration_RateLimitedProcessing(t *testing.T) {
	logger := &mockLogger{}
	esClient := newMockESClient()

	esClient.rawEvents = []*domain.RawEvent{
		{
			ID:                   "test-1",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/1",
			Title:                "Silent disco under the stars",
			Description:          "Three channels of headphone party action on the rooftop",
			VenueName:            "Skyline Terrace",
			StartTime:            "21:00",
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		},
	}

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)

	// Use low RPS for testing
	esRPS := 10
	dbRPS := 10
	rateLimitedProc := NewRateLimitedProcessor(batchProcessor, esRPS, dbRPS, logger)

	ctx := context.Background()
	startTime := time.Now()
	results, err := rateLimitedProc.ProcessWithRateLimit(ctx, esClient.rawEvents)
	duration := time.Since(startTime)

	if err != nil {
		t.Fatalf("rate-limited processing failed: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}

	// Rate limiting should add minimal delay for a single event
	if duration > 1*time.Second {
		t.Errorf("processing took too long: %v", duration)
	}

	if rateLimitedProc.GetESLimiter() == nil {
		t.Error("expected ES rate limiter to be initialized")
	}
	if rateLimitedProc.GetDBLimiter() == nil {
		t.Error("expected DB rate limiter to be initialized")
	}
}

// TestIntegration_PollerWithRateLimiting tests poller with rate limiting
func TestIntegration_PollerWithRateLimiting(t *testing.T) {
	logger := &mockLogger{}
	esClient := newMockESClient()
	dbClient := newMockDBClient()

	esClient.rawEvents = []*domain.RawEvent{
		{
			ID:                   "test-1",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/1",
			Title:                "Warehouse rave",
			Description:          "All night DJ party",
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		},
	}

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)
	pollerConfig := PollerConfig{
		BatchSize:    10,
		PollInterval: 30 * time.Second,
	}
	poller := NewPoller(esClient, dbClient, batchProcessor, logger, pollerConfig)

	pollRPS := 10
	rateLimitedPoller := NewRateLimitedPoller(poller, pollRPS, logger)

	ctx := context.Background()
	err := rateLimitedPoller.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start rate-limited poller: %v", err)
	}

	if !rateLimitedPoller.IsRunning() {
		t.Error("expected rate-limited poller to be running")
	}

	// Let it process
	time.Sleep(100 * time.Millisecond)

	rateLimitedPoller.Stop()
	time.Sleep(50 * time.Millisecond)

	if rateLimitedPoller.IsRunning() {
		t.Error("expected rate-limited poller to be stopped")
	}
}

// TestIntegration_BatchProcessingConcurrency tests concurrent processing
func TestIntegration_BatchProcessingConcurrency(t *testing.T) {
	logger := &mockLogger{}
	testClassifier := createTestClassifier(logger)

	// Create 20 test events
	rawEvents := make([]*domain.RawEvent, 20)
	for i := 0; i < 20; i++ {
		rawEvents[i] = &domain.RawEvent{
			ID:                   "test-" + string(rune('A'+i)),
			Provider:             "seatgeek",
			URL:                  "https://example.com/events/concurrent",
			Title:                "Friday night dance party",
			Description:          "DJ sets and a packed dance floor until late",
			VenueName:            "The Basement Club",
			StartTime:            "22:00",
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		}
	}

	// Process with 5 concurrent workers
	batchProcessor := NewBatchProcessor(testClassifier, 5, logger)

	ctx := context.Background()
	startTime := time.Now()
	results, err := batchProcessor.Process(ctx, rawEvents)
	duration := time.Since(startTime)

	if err != nil {
		t.Fatalf("batch processing failed: %v", err)
	}

	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}

	for _, result := range results {
		if result.Error != nil {
			t.Errorf("event %s failed: %v", result.Raw.ID, result.Error)
		}
		if result.ClassifiedEvent == nil {
			t.Errorf("event %s missing classified event", result.Raw.ID)
		}
	}

	t.Logf("Processed 20 events in %v with 5 workers", duration)
}

// TestIntegration_SparseEventHandling tests that sparse records still flow through
func TestIntegration_SparseEventHandling(t *testing.T) {
	logger := &mockLogger{}
	esClient := newMockESClient()
	dbClient := newMockDBClient()

	esClient.rawEvents = []*domain.RawEvent{
		{
			ID:                   "test-good",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/good",
			Title:                "Rooftop pool party with DJ lineup",
			Description:          "Open bar, dance floor, bottle service all afternoon",
			VenueName:            "Skybar Lounge",
			StartTime:            "15:00",
			Date:                 "2026-09-05",
			City:                 "Toronto",
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		},
		{
			ID:                   "test-sparse",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/sparse",
			Title:                "", // No title, no description
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		},
	}

	testClassifier := createTestClassifier(logger)
	batchProcessor := NewBatchProcessor(testClassifier, 2, logger)
	pollerConfig := PollerConfig{BatchSize: 10, PollInterval: 30 * time.Second}
	poller := NewPoller(esClient, dbClient, batchProcessor, logger, pollerConfig)

	ctx := context.Background()
	err := poller.processPending(ctx)

	// Sparse records classify as non-party rather than erroring
	if err != nil {
		t.Fatalf("processPending should handle sparse records gracefully: %v", err)
	}

	if len(esClient.classifiedEvents) != 2 {
		t.Errorf("expected 2 classified events, got %d", len(esClient.classifiedEvents))
	}

	for _, event := range esClient.classifiedEvents {
		if event.ID == "test-sparse" && event.IsParty {
			t.Error("expected sparse record to be classified as non-party")
		}
		if event.ID == "test-sparse" && event.CompletenessScore >= 50 {
			t.Errorf("expected low completeness for sparse record, got %d", event.CompletenessScore)
		}
	}

	if _, ok := esClient.statusUpdates["test-good"]; !ok {
		t.Error("expected test-good to have status update")
	}

	if len(dbClient.histories) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(dbClient.histories))
	}
}
