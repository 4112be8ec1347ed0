package ingestion

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/partypulse/classifier/internal/domain"
)

const providerPredictHQ = "predicthq"

// predicthqPayload mirrors the PredictHQ events API response envelope.
type predicthqPayload struct {
	Results []predicthqEvent `json:"results"`
}

type predicthqEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"` // RFC3339
	Entities    []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	} `json:"entities"`
	// Location is [longitude, latitude] per GeoJSON convention
	Location []float64 `json:"location"`
	Country  string    `json:"country"`
	Labels   []string  `json:"labels"`
}

// PredictHQAdapter maps PredictHQ events to RawEvents.
type PredictHQAdapter struct{}

// NewPredictHQAdapter creates a PredictHQ adapter.
func NewPredictHQAdapter() *PredictHQAdapter {
	return &PredictHQAdapter{}
}

// Provider returns the canonical provider name.
func (a *PredictHQAdapter) Provider() string {
	return providerPredictHQ
}

// Parse maps a PredictHQ payload into RawEvents. It accepts either the
// full envelope or a bare result array.
func (a *PredictHQAdapter) Parse(payload []byte) ([]*domain.RawEvent, error) {
	var envelope predicthqPayload
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decoding predicthq payload: %w", err)
	}

	phqEvents := envelope.Results
	if len(phqEvents) == 0 {
		if err := json.Unmarshal(payload, &phqEvents); err != nil {
			phqEvents = nil
		}
	}

	events := make([]*domain.RawEvent, 0, len(phqEvents))
	for i := range phqEvents {
		event := a.mapEvent(&phqEvents[i])
		if event == nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (a *PredictHQAdapter) mapEvent(phq *predicthqEvent) *domain.RawEvent {
	if phq.ID == "" && phq.Title == "" {
		return nil
	}

	event := newRawEvent(providerPredictHQ)
	event.ID = phq.ID
	event.Title = phq.Title
	event.Description = phq.Description

	if start, err := time.Parse(time.RFC3339, phq.Start); err == nil {
		event.Date = start.Format("2006-01-02")
		event.StartTime = start.Format("15:04")
	}

	// First venue entity, if any, names the venue
	for _, entity := range phq.Entities {
		if entity.Type == "venue" {
			event.VenueName = entity.Name
			break
		}
	}

	if len(phq.Location) == 2 {
		event.Longitude = phq.Location[0]
		event.Latitude = phq.Location[1]
	}

	return event
}
