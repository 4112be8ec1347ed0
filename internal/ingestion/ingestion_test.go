//nolint:testpackage // Testing internal adapters requires same package access
package ingestion

import (
	"testing"

	"github.com/partypulse/classifier/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func TestRegistry_Providers(t *testing.T) {
	registry := NewRegistry(nopLogger{})

	providers := registry.Providers()
	expected := []string{"predicthq", "seatgeek", "ticketmaster"}

	if len(providers) != len(expected) {
		t.Fatalf("expected %d providers, got %d", len(expected), len(providers))
	}
	for i, name := range expected {
		if providers[i] != name {
			t.Errorf("expected provider %q at index %d, got %q", name, i, providers[i])
		}
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	registry := NewRegistry(nopLogger{})

	if _, err := registry.Get("eventbrite"); err == nil {
		t.Error("expected error for unknown provider")
	}

	if _, err := registry.Parse("eventbrite", []byte(`{}`)); err == nil {
		t.Error("expected parse error for unknown provider")
	}
}

func TestRegistry_ProviderNameNormalization(t *testing.T) {
	registry := NewRegistry(nopLogger{})

	adapter, err := registry.Get("  TicketMaster ")
	if err != nil {
		t.Fatalf("expected case-insensitive lookup to succeed: %v", err)
	}
	if adapter.Provider() != "ticketmaster" {
		t.Errorf("expected ticketmaster adapter, got %s", adapter.Provider())
	}
}

func TestTicketmasterAdapter_Parse(t *testing.T) {
	payload := []byte(`{
		"_embedded": {
			"events": [
				{
					"id": "tm-123",
					"name": "Saturday Night Rave",
					"info": "All night DJ sets",
					"url": "https://tm.example.com/tm-123",
					"dates": {"start": {"localDate": "2026-09-12", "localTime": "23:00:00"}},
					"images": [{"url": "https://img.example.com/rave.jpg"}],
					"_embedded": {
						"venues": [
							{
								"name": "Warehouse 9",
								"city": {"name": "Toronto"},
								"location": {"latitude": "43.6532", "longitude": "-79.3832"}
							}
						]
					}
				}
			]
		}
	}`)

	adapter := NewTicketmasterAdapter()
	events, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ID != "tm-123" {
		t.Errorf("expected ID tm-123, got %s", event.ID)
	}
	if event.Provider != "ticketmaster" {
		t.Errorf("expected provider ticketmaster, got %s", event.Provider)
	}
	if event.Title != "Saturday Night Rave" {
		t.Errorf("unexpected title %q", event.Title)
	}
	if event.VenueName != "Warehouse 9" {
		t.Errorf("unexpected venue %q", event.VenueName)
	}
	if event.StartTime != "23:00" {
		t.Errorf("expected start time 23:00, got %q", event.StartTime)
	}
	if event.Date != "2026-09-12" {
		t.Errorf("unexpected date %q", event.Date)
	}
	if event.City != "Toronto" {
		t.Errorf("unexpected city %q", event.City)
	}
	if event.Latitude == 0 || event.Longitude == 0 {
		t.Error("expected coordinates to be parsed")
	}
	if event.ClassificationStatus != domain.StatusPending {
		t.Errorf("expected pending status, got %s", event.ClassificationStatus)
	}
	if event.FetchedAt.IsZero() {
		t.Error("expected fetched_at to be set")
	}
}

func TestTicketmasterAdapter_SkipsEmptyRecords(t *testing.T) {
	payload := []byte(`{"_embedded": {"events": [{"id": "", "name": ""}, {"id": "tm-1", "name": "Club Night"}]}}`)

	adapter := NewTicketmasterAdapter()
	events, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected empty record to be skipped, got %d events", len(events))
	}
	if events[0].ID != "tm-1" {
		t.Errorf("expected tm-1, got %s", events[0].ID)
	}
}

func TestSeatGeekAdapter_Parse(t *testing.T) {
	payload := []byte(`{
		"events": [
			{
				"id": 8812734,
				"title": "Rooftop Day Party",
				"description": "Pool party with bottle service",
				"datetime_local": "2026-08-15T14:00:00",
				"url": "https://sg.example.com/8812734",
				"venue": {
					"name": "Skybar Lounge",
					"city": "Miami",
					"location": {"lat": 25.7617, "lon": -80.1918}
				},
				"performers": [{"image": "https://img.example.com/dj.jpg"}]
			}
		]
	}`)

	adapter := NewSeatGeekAdapter()
	events, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ID != "8812734" {
		t.Errorf("expected numeric ID to be stringified, got %q", event.ID)
	}
	if event.Provider != "seatgeek" {
		t.Errorf("expected provider seatgeek, got %s", event.Provider)
	}
	if event.StartTime != "14:00" {
		t.Errorf("expected start time 14:00, got %q", event.StartTime)
	}
	if event.Date != "2026-08-15" {
		t.Errorf("unexpected date %q", event.Date)
	}
	if event.VenueName != "Skybar Lounge" {
		t.Errorf("unexpected venue %q", event.VenueName)
	}
	if event.ImageURL == "" {
		t.Error("expected performer image to map to image_url")
	}
}

func TestPredictHQAdapter_Parse(t *testing.T) {
	payload := []byte(`{
		"results": [
			{
				"id": "phq-abc",
				"title": "Underground Warehouse Party",
				"description": "Secret location techno night",
				"start": "2026-10-03T23:30:00Z",
				"entities": [
					{"type": "organizer", "name": "Collective X"},
					{"type": "venue", "name": "The Depot"}
				],
				"location": [-79.3832, 43.6532],
				"labels": ["music", "nightlife"]
			}
		]
	}`)

	adapter := NewPredictHQAdapter()
	events, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Provider != "predicthq" {
		t.Errorf("expected provider predicthq, got %s", event.Provider)
	}
	if event.StartTime != "23:30" {
		t.Errorf("expected start time 23:30, got %q", event.StartTime)
	}
	if event.Date != "2026-10-03" {
		t.Errorf("unexpected date %q", event.Date)
	}
	if event.VenueName != "The Depot" {
		t.Errorf("expected venue entity to map, got %q", event.VenueName)
	}
	if event.Latitude != 43.6532 || event.Longitude != -79.3832 {
		t.Errorf("expected GeoJSON lon/lat order, got lat=%f lon=%f", event.Latitude, event.Longitude)
	}
}

func TestPredictHQAdapter_UnparseableStart(t *testing.T) {
	payload := []byte(`{"results": [{"id": "phq-1", "title": "Party", "start": "next friday"}]}`)

	adapter := NewPredictHQAdapter()
	events, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].StartTime != "" {
		t.Errorf("expected empty start time for unparseable value, got %q", events[0].StartTime)
	}
}

func TestNormalizeClockTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain HH:MM", "23:00", "23:00"},
		{"HH:MM:SS", "19:30:00", "19:30"},
		{"ISO datetime", "2026-09-12T22:15:00", "22:15"},
		{"empty", "", ""},
		{"garbage", "late night", ""},
		{"out of range", "25:99", ""},
		{"whitespace", "  21:00  ", "21:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeClockTime(tt.input); got != tt.want {
				t.Errorf("normalizeClockTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
