package domain

import "time"

// RawEvent represents a normalized event record from an upstream
// event-search provider. Provider-specific payload shapes are mapped into
// this struct by the ingestion adapters before classification.
type RawEvent struct {
	// Core identifiers
	ID       string `json:"id"`
	Provider string `json:"provider"`
	URL      string `json:"url,omitempty"`

	// Free-text fields consumed by the classifier
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VenueName   string `json:"venue_name,omitempty"`
	// StartTime is free-form, usually "HH:MM" 24-hour but not guaranteed.
	StartTime string `json:"start_time,omitempty"`

	// Optional structured fields carried through for display
	Date      string  `json:"date,omitempty"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`

	// Timestamps
	FetchedAt time.Time `json:"fetched_at"`

	// Processing status
	ClassificationStatus string     `json:"classification_status"` // "pending", "classified", "failed"
	ClassifiedAt         *time.Time `json:"classified_at,omitempty"`
}

// Text returns the four classifier input fields. Missing fields come back
// as empty strings; the classifier treats those as "no evidence".
func (e *RawEvent) Text() EventText {
	return EventText{
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.VenueName,
		Time:        e.StartTime,
	}
}

// EventText is the canonical four-field input to the party classifier.
// All fields are optional; empty strings contribute no matches.
type EventText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	Time        string `json:"time"`
}

// ClassificationStatus constants
const (
	StatusPending    = "pending"
	StatusClassified = "classified"
	StatusFailed     = "failed"
)
