package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/partypulse/classifier/internal/classifier"
	"github.com/partypulse/classifier/internal/domain"
	"github.com/partypulse/classifier/internal/ingestion"
	"github.com/partypulse/classifier/internal/processor"
)

// mockLogger implements Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockReputationDB implements ProviderReputationDB for testing
type mockReputationDB struct {
	providers map[string]*domain.ProviderReputation
}

func newMockReputationDB() *mockReputationDB {
	return &mockReputationDB{
		providers: make(map[string]*domain.ProviderReputation),
	}
}

func (m *mockReputationDB) GetProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error) {
	rep, ok := m.providers[provider]
	if !ok {
		return nil, nil
	}
	return rep, nil
}

func (m *mockReputationDB) CreateProvider(ctx context.Context, rep *domain.ProviderReputation) error {
	m.providers[rep.Provider] = rep
	return nil
}

func (m *mockReputationDB) UpdateProvider(ctx context.Context, rep *domain.ProviderReputation) error {
	m.providers[rep.Provider] = rep
	return nil
}

func (m *mockReputationDB) GetOrCreateProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error) {
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

// setupTestHandler creates a test handler with in-process dependencies.
// Database repositories are nil; tests here stay off the repo endpoints.
func setupTestHandler() *Handler {
	logger := &mockLogger{}

	rules := []*domain.TagRule{
		{
			ID:            1,
			RuleName:      "free_entry_tag",
			Tag:           "free-entry",
			Keywords:      []string{"free entry", "no cover"},
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

	classifierInstance := classifier.NewClassifier(logger, rules, repDB, nil, config)
	batchProcessor := processor.NewBatchProcessor(classifierInstance, 2, logger)
	registry := ingestion.NewRegistry(logger)

	return NewHandler(HandlerConfig{
		Classifier:     classifierInstance,
		BatchProcessor: batchProcessor,
		Registry:       registry,
		Logger:         logger,
		Version:        "1.0.0",
	})
}

// setupRouter creates a test router with routes
func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, handler, nil)
	return router
}

func TestHealthCheck(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
	if response["version"] != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %v", response["version"])
	}
}

func TestReadyCheck(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ready", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response["status"] != "ready" {
		t.Errorf("expected status ready, got %v", response["status"])
	}
}

func TestClassify_PartyEvent(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	reqBody := ClassifyRequest{
		Event: &domain.RawEvent{
			ID:                   "test-1",
			Provider:             "ticketmaster",
			URL:                  "https://example.com/events/1",
			Title:                "Saturday Night Rave",
			Description:          "All night DJ sets with no cover before midnight",
			VenueName:            "Warehouse 9 Nightclub",
			StartTime:            "23:00",
			FetchedAt:            time.Now(),
			ClassificationStatus: domain.StatusPending,
		},
	}

	body, _ := json.Marshal(reqBody)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/classify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response ClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Result == nil {
		t.Fatal("expected result to be non-nil")
	}
	if !response.Result.IsParty {
		t.Error("expected rave to be classified as a party")
	}
	if response.Result.Category != domain.CategoryParty {
		t.Errorf("expected category party, got %s", response.Result.Category)
	}
	if response.Result.PartyScore <= 0 {
		t.Errorf("expected positive party score, got %d", response.Result.PartyScore)
	}

	// Tag rule should fire on "no cover"
	hasTag := false
	for _, tag := range response.Result.Tags {
		if tag == "free-entry" {
			hasTag = true
			break
		}
	}
	if !hasTag {
		t.Error("expected free-entry tag to be attached")
	}
}

func TestClassify_NonPartyEvent(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	reqBody := ClassifyRequest{
		Event: &domain.RawEvent{
			ID:          "test-2",
			Provider:    "seatgeek",
			Title:       "Quarterly earnings webinar",
			Description: "Investor presentation and workshop on quarterly results",
			StartTime:   "14:00",
		},
	}

	body, _ := json.Marshal(reqBody)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/classify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response ClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Result.IsParty {
		t.Error("expected webinar NOT to be classified as a party")
	}
	if response.Result.Category != domain.CategoryEvent {
		t.Errorf("expected category event, got %s", response.Result.Category)
	}
}

func TestClassify_InvalidRequest(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/classify", bytes.NewBuffer([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestClassifyBatch_Success(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	reqBody := BatchClassifyRequest{
		Events: []*domain.RawEvent{
			{
				ID:        "test-1",
				Provider:  "ticketmaster",
				Title:     "Rooftop day party with DJ sets",
				VenueName: "Skybar Lounge",
				StartTime: "15:00",
			},
			{
				ID:        "test-2",
				Provider:  "ticketmaster",
				Title:     "City council public hearing",
				StartTime: "10:00",
			},
		},
	}

	body, _ := json.Marshal(reqBody)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/classify/batch", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response BatchClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Total != 2 {
		t.Errorf("expected total 2, got %d", response.Total)
	}
	if response.Success != 2 {
		t.Errorf("expected success 2, got %d", response.Success)
	}
	if response.Failed != 0 {
		t.Errorf("expected failed 0, got %d", response.Failed)
	}
}

func TestClassifyBatch_EmptyRequest(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	reqBody := BatchClassifyRequest{
		Events: []*domain.RawEvent{},
	}

	body, _ := json.Marshal(reqBody)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/classify/batch", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestImportEvents_Ticketmaster(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	payload := `{
		"_embedded": {
			"events": [
				{
					"id": "tm-1",
					"name": "Warehouse Rave",
					"info": "Underground techno all night",
					"dates": {"start": {"localDate": "2026-09-12", "localTime": "23:00:00"}},
					"_embedded": {"venues": [{"name": "The Depot", "city": {"name": "Toronto"}}]}
				}
			]
		}
	}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/events/import/ticketmaster", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response ImportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Received != 1 {
		t.Errorf("expected 1 received, got %d", response.Received)
	}
	if response.Classified != 1 {
		t.Errorf("expected 1 classified, got %d", response.Classified)
	}
	if len(response.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(response.Results))
	}
	if !response.Results[0].IsParty {
		t.Error("expected imported rave to be classified as a party")
	}
	if response.Results[0].Provider != "ticketmaster" {
		t.Errorf("expected provider ticketmaster, got %s", response.Results[0].Provider)
	}
}

func TestImportEvents_UnknownProvider(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/events/import/eventbrite", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown provider, got %d", w.Code)
	}
}

func TestImportEvents_EmptyPayload(t *testing.T) {
	handler := setupTestHandler()
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/events/import/seatgeek", bytes.NewBufferString(`{"events": []}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response ImportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Received != 0 || len(response.Results) != 0 {
		t.Errorf("expected empty import summary, got %+v", response)
	}
}
