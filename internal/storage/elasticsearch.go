package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/partypulse/classifier/internal/domain"
	"github.com/partypulse/classifier/internal/elasticsearch/mappings"
)

const rawSuffix = "_raw_events"

// ElasticsearchStorage implements storage operations for the classifier
type ElasticsearchStorage struct {
	client *es.Client
}

// NewElasticsearchStorage creates a new Elasticsearch storage instance
func NewElasticsearchStorage(client *es.Client) *ElasticsearchStorage {
	return &ElasticsearchStorage{
		client: client,
	}
}

// QueryRawEvents queries for raw events with the specified classification
// status. This matches the ElasticsearchClient interface expected by the
// Poller.
func (s *ElasticsearchStorage) QueryRawEvents(ctx context.Context, status string, batchSize int) ([]*domain.RawEvent, error) {
	// Query all *_raw_events indices
	indexPattern := "*" + rawSuffix
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"classification_status": status,
			},
		},
		"size": batchSize,
		"sort": []map[string]interface{}{
			{
				"fetched_at": map[string]interface{}{
					"order": "asc",
				},
			},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(indexPattern),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Index  string          `json:"_index"`
				ID     string          `json:"_id"`
				Source domain.RawEvent `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	events := make([]*domain.RawEvent, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		event := hit.Source
		// Preserve the Elasticsearch document ID if not already set
		if event.ID == "" {
			event.ID = hit.ID
		}
		events = append(events, &event)
	}

	return events, nil
}

// IndexClassifiedEvent indexes an enriched classified event
func (s *ElasticsearchStorage) IndexClassifiedEvent(ctx context.Context, event *domain.ClassifiedEvent) error {
	// Classified index name is derived from the provider
	classifiedIndex := event.Provider + "_classified_events"

	event.ClassificationStatus = domain.StatusClassified
	now := time.Now()
	event.ClassifiedAt = &now

	docBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(
		classifiedIndex,
		bytes.NewReader(docBytes),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(event.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// UpdateRawEventStatus updates the classification_status field in raw_events
func (s *ElasticsearchStorage) UpdateRawEventStatus(ctx context.Context, eventID string, status string, classifiedAt time.Time) error {
	update := map[string]interface{}{
		"doc": map[string]interface{}{
			"classification_status": status,
			"classified_at":         classifiedAt,
		},
	}

	updateBytes, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	// The document lives in exactly one of the *_raw_events indices; try
	// each until the update succeeds
	indices, err := s.ListRawEventIndices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indices: %w", err)
	}

	var lastErr error
	for _, index := range indices {
		res, err := s.client.Update(
			index,
			eventID,
			bytes.NewReader(updateBytes),
			s.client.Update.WithContext(ctx),
		)
		if err != nil {
			lastErr = err
			continue
		}
		defer res.Body.Close()

		if !res.IsError() {
			return nil
		}
		// A 404 just means the document is in another index
		lastErr = fmt.Errorf("error updating document: %s", res.String())
	}

	if lastErr != nil {
		return fmt.Errorf("failed to update document in any index: %w", lastErr)
	}

	return nil
}

// BulkIndexClassifiedEvents indexes multiple classified events
func (s *ElasticsearchStorage) BulkIndexClassifiedEvents(ctx context.Context, events []*domain.ClassifiedEvent) error {
	if len(events) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, event := range events {
		classifiedIndex := event.Provider + "_classified_events"

		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": classifiedIndex,
				"_id":    event.ID,
			},
		}

		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}

		if err := json.NewEncoder(&buf).Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	return nil
}

// ListRawEventIndices lists all *_raw_events indices
func (s *ElasticsearchStorage) ListRawEventIndices(ctx context.Context) ([]string, error) {
	res, err := s.client.Indices.Get(
		[]string{"*" + rawSuffix},
		s.client.Indices.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error listing indices: %s", res.String())
	}

	var indices map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	result := make([]string, 0, len(indices))
	for index := range indices {
		result = append(result, index)
	}

	return result, nil
}

// EnsureEventIndices creates the raw and classified event indices for the
// given providers when they do not exist yet. Existing indices are left
// untouched.
func (s *ElasticsearchStorage) EnsureEventIndices(ctx context.Context, providers []string) error {
	rawMapping, err := mappings.NewRawEventsMapping().GetJSON()
	if err != nil {
		return fmt.Errorf("failed to build raw events mapping: %w", err)
	}
	classifiedMapping, err := mappings.NewClassifiedEventsMapping().GetJSON()
	if err != nil {
		return fmt.Errorf("failed to build classified events mapping: %w", err)
	}

	for _, provider := range providers {
		if err := s.createIndexIfMissing(ctx, provider+rawSuffix, rawMapping); err != nil {
			return err
		}
		if err := s.createIndexIfMissing(ctx, provider+"_classified_events", classifiedMapping); err != nil {
			return err
		}
	}
	return nil
}

func (s *ElasticsearchStorage) createIndexIfMissing(ctx context.Context, index, mapping string) error {
	res, err := s.client.Indices.Exists(
		[]string{index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	createRes, err := s.client.Indices.Create(
		index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index %s: %s", index, createRes.String())
	}
	return nil
}

// TestConnection tests the connection to Elasticsearch
func (s *ElasticsearchStorage) TestConnection(ctx context.Context) error {
	res, err := s.client.Info()
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}

	return nil
}

// GetClassifiedIndexName returns the classified_events index name for a
// raw_events index
func GetClassifiedIndexName(rawIndex string) (string, error) {
	if len(rawIndex) < len(rawSuffix) || rawIndex[len(rawIndex)-len(rawSuffix):] != rawSuffix {
		return "", errors.New("invalid raw_events index name")
	}
	return rawIndex[:len(rawIndex)-len(rawSuffix)] + "_classified_events", nil
}
