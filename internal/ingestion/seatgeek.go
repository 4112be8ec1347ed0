package ingestion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/partypulse/classifier/internal/domain"
)

const providerSeatGeek = "seatgeek"

// seatgeekPayload mirrors the SeatGeek events API response envelope.
type seatgeekPayload struct {
	Events []seatgeekEvent `json:"events"`
}

type seatgeekEvent struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DatetimeLocal string `json:"datetime_local"`
	URL           string `json:"url"`
	Venue         struct {
		Name     string `json:"name"`
		City     string `json:"city"`
		Location struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
	} `json:"venue"`
	Performers []struct {
		Image string `json:"image"`
	} `json:"performers"`
}

// SeatGeekAdapter maps SeatGeek events to RawEvents.
type SeatGeekAdapter struct{}

// NewSeatGeekAdapter creates a SeatGeek adapter.
func NewSeatGeekAdapter() *SeatGeekAdapter {
	return &SeatGeekAdapter{}
}

// Provider returns the canonical provider name.
func (a *SeatGeekAdapter) Provider() string {
	return providerSeatGeek
}

// Parse maps a SeatGeek payload into RawEvents. It accepts either the
// full envelope or a bare event array.
func (a *SeatGeekAdapter) Parse(payload []byte) ([]*domain.RawEvent, error) {
	var envelope seatgeekPayload
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decoding seatgeek payload: %w", err)
	}

	sgEvents := envelope.Events
	if len(sgEvents) == 0 {
		if err := json.Unmarshal(payload, &sgEvents); err != nil {
			sgEvents = nil
		}
	}

	events := make([]*domain.RawEvent, 0, len(sgEvents))
	for i := range sgEvents {
		event := a.mapEvent(&sgEvents[i])
		if event == nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (a *SeatGeekAdapter) mapEvent(sg *seatgeekEvent) *domain.RawEvent {
	if sg.ID == 0 && sg.Title == "" {
		return nil
	}

	event := newRawEvent(providerSeatGeek)
	if sg.ID != 0 {
		event.ID = strconv.FormatInt(sg.ID, 10)
	}
	event.Title = sg.Title
	event.Description = sg.Description
	event.URL = sg.URL
	event.VenueName = sg.Venue.Name
	event.City = sg.Venue.City
	event.Latitude = sg.Venue.Location.Lat
	event.Longitude = sg.Venue.Location.Lon
	event.StartTime = normalizeClockTime(sg.DatetimeLocal)

	// "2026-09-12T23:00:00" carries the date before the T
	if idx := strings.IndexByte(sg.DatetimeLocal, 'T'); idx > 0 {
		event.Date = sg.DatetimeLocal[:idx]
	}

	if len(sg.Performers) > 0 {
		event.ImageURL = sg.Performers[0].Image
	}

	return event
}
