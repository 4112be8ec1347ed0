// classifier/internal/classifier/completeness.go
package classifier

import (
	"context"

	"github.com/partypulse/classifier/internal/domain"
)

const (
	// Completeness scoring constants. Four components of 0-25 each.
	maxCompletenessScore = 100
	maxComponentScore    = 25

	descRichLength  = 400
	descOKLength    = 120
	descShortLength = 30

	descScoreRich  = 25
	descScoreOK    = 18
	descScoreShort = 10

	titlePoints    = 15
	titleLongBonus = 10
	titleLongLen   = 12

	venuePoints = 15
	timePoints  = 10

	urlPoints   = 10
	datePoints  = 8
	cityPoints  = 7
	imagePoints = 10
	geoPoints   = 15

	completenessFactorCount = 4
)

// CompletenessScorer evaluates how complete an event record is on a
// 0-100 scale. Sparse records still classify; the score lets downstream
// ranking prefer well-populated ones.
type CompletenessScorer struct {
	logger Logger
}

// NewCompletenessScorer creates a new completeness scorer.
func NewCompletenessScorer(logger Logger) *CompletenessScorer {
	return &CompletenessScorer{logger: logger}
}

// CompletenessResult holds the completeness score and its breakdown.
type CompletenessResult struct {
	TotalScore int            `json:"total_score"` // 0-100
	Factors    map[string]any `json:"factors"`
}

// Score calculates the completeness score for the given event.
func (c *CompletenessScorer) Score(ctx context.Context, event *domain.RawEvent) (*CompletenessResult, error) {
	factors := make(map[string]any, completenessFactorCount)

	// 1. Core text fields (0-25)
	textScore := c.textScore(event)
	factors["text_fields"] = map[string]any{
		"score": textScore,
		"max":   maxComponentScore,
	}

	// 2. Description richness (0-25)
	descScore := c.descriptionScore(event.Description)
	factors["description"] = map[string]any{
		"length": len(event.Description),
		"score":  descScore,
		"max":    maxComponentScore,
	}

	// 3. Schedule fields (0-25)
	scheduleScore := c.scheduleScore(event)
	factors["schedule"] = map[string]any{
		"score": scheduleScore,
		"max":   maxComponentScore,
	}

	// 4. Display fields (0-25)
	displayScore := c.displayScore(event)
	factors["display"] = map[string]any{
		"score": displayScore,
		"max":   maxComponentScore,
	}

	total := textScore + descScore + scheduleScore + displayScore
	if total > maxCompletenessScore {
		total = maxCompletenessScore
	}

	c.logger.Debug("Completeness score calculated",
		"event_id", event.ID,
		"total_score", total,
	)

	return &CompletenessResult{
		TotalScore: total,
		Factors:    factors,
	}, nil
}

// textScore covers title and venue presence (0-25).
func (c *CompletenessScorer) textScore(event *domain.RawEvent) int {
	score := 0
	if event.Title != "" {
		score += titlePoints
		if len(event.Title) >= titleLongLen {
			score += titleLongBonus
		}
	}
	if event.VenueName != "" && score < maxComponentScore {
		score += venuePoints
	}
	if score > maxComponentScore {
		score = maxComponentScore
	}
	return score
}

// descriptionScore tiers by description length (0-25).
func (c *CompletenessScorer) descriptionScore(description string) int {
	switch {
	case len(description) >= descRichLength:
		return descScoreRich
	case len(description) >= descOKLength:
		return descScoreOK
	case len(description) >= descShortLength:
		return descScoreShort
	default:
		return 0
	}
}

// scheduleScore covers time and date fields (0-25).
func (c *CompletenessScorer) scheduleScore(event *domain.RawEvent) int {
	score := 0
	if _, ok := parseEventHour(event.StartTime); ok {
		score += timePoints
	}
	if event.Date != "" {
		score += datePoints
	}
	if event.City != "" {
		score += cityPoints
	}
	if score > maxComponentScore {
		score = maxComponentScore
	}
	return score
}

// displayScore covers URL, image, and coordinates (0-25).
func (c *CompletenessScorer) displayScore(event *domain.RawEvent) int {
	score := 0
	if event.URL != "" {
		score += urlPoints
	}
	if event.ImageURL != "" {
		score += imagePoints
	}
	if event.Latitude != 0 || event.Longitude != 0 {
		score += geoPoints
	}
	if score > maxComponentScore {
		score = maxComponentScore
	}
	return score
}
