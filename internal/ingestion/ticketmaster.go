package ingestion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/partypulse/classifier/internal/domain"
)

const providerTicketmaster = "ticketmaster"

// ticketmasterPayload mirrors the Discovery API response envelope.
type ticketmasterPayload struct {
	Embedded struct {
		Events []ticketmasterEvent `json:"events"`
	} `json:"_embedded"`
}

type ticketmasterEvent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Info       string `json:"info"`
	PleaseNote string `json:"pleaseNote"`
	URL        string `json:"url"`
	Dates      struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
			Location struct {
				Latitude  string `json:"latitude"`
				Longitude string `json:"longitude"`
			} `json:"location"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// TicketmasterAdapter maps Discovery API events to RawEvents.
type TicketmasterAdapter struct{}

// NewTicketmasterAdapter creates a Ticketmaster adapter.
func NewTicketmasterAdapter() *TicketmasterAdapter {
	return &TicketmasterAdapter{}
}

// Provider returns the canonical provider name.
func (a *TicketmasterAdapter) Provider() string {
	return providerTicketmaster
}

// Parse maps a Discovery API payload into RawEvents. It accepts either
// the full envelope or a bare event array.
func (a *TicketmasterAdapter) Parse(payload []byte) ([]*domain.RawEvent, error) {
	var envelope ticketmasterPayload
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decoding ticketmaster payload: %w", err)
	}

	tmEvents := envelope.Embedded.Events
	if len(tmEvents) == 0 {
		// Bare array form
		if err := json.Unmarshal(payload, &tmEvents); err != nil {
			tmEvents = nil
		}
	}

	events := make([]*domain.RawEvent, 0, len(tmEvents))
	for i := range tmEvents {
		event := a.mapEvent(&tmEvents[i])
		if event == nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (a *TicketmasterAdapter) mapEvent(tm *ticketmasterEvent) *domain.RawEvent {
	if tm.ID == "" && tm.Name == "" {
		return nil
	}

	event := newRawEvent(providerTicketmaster)
	event.ID = tm.ID
	event.Title = tm.Name
	event.Description = joinNonEmpty(tm.Info, tm.PleaseNote)
	event.URL = tm.URL
	event.Date = tm.Dates.Start.LocalDate
	event.StartTime = normalizeClockTime(tm.Dates.Start.LocalTime)

	if len(tm.Embedded.Venues) > 0 {
		venue := tm.Embedded.Venues[0]
		event.VenueName = venue.Name
		event.City = venue.City.Name
		if lat, err := strconv.ParseFloat(venue.Location.Latitude, 64); err == nil {
			event.Latitude = lat
		}
		if lon, err := strconv.ParseFloat(venue.Location.Longitude, 64); err == nil {
			event.Longitude = lon
		}
	}

	if len(tm.Images) > 0 {
		event.ImageURL = tm.Images[0].URL
	}

	return event
}

func joinNonEmpty(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(part))
		}
	}
	return strings.Join(nonEmpty, " ")
}
