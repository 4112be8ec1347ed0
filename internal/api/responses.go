package api

import (
	"time"

	"github.com/partypulse/classifier/internal/domain"
)

const (
	// Priority constants for dashboard to database conversion
	priorityHigh            = 10
	priorityNormal          = 5
	priorityLow             = 1
	priorityHighThreshold   = 8
	priorityNormalThreshold = 4

	defaultRuleMinConfidence = 0.3
)

// RuleResponse represents a tag rule response for the dashboard.
type RuleResponse struct {
	ID       int      `json:"id"`
	Tag      string   `json:"tag"`
	Keywords []string `json:"keywords"`
	Priority string   `json:"priority"` // "high", "normal", "low"
	Enabled  bool     `json:"enabled"`
}

// RulesListResponse represents a list of rules with metadata.
type RulesListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int            `json:"total"`
}

// CreateRuleRequest represents a request to create a tag rule.
type CreateRuleRequest struct {
	Tag      string   `json:"tag" binding:"required"`
	Keywords []string `json:"keywords" binding:"required,min=1"`
	Priority string   `json:"priority"` // "high", "normal", "low"
	Enabled  bool     `json:"enabled"`
}

// ProviderReputationResponse represents a provider reputation response.
type ProviderReputationResponse struct {
	Provider        string     `json:"provider"`
	Reputation      int        `json:"reputation"`
	TotalEvents     int        `json:"total_events"`
	PartyEvents     int        `json:"party_events"`
	AvgCompleteness float64    `json:"avg_completeness"`
	JunkCount       int        `json:"junk_count"`
	LastClassified  *time.Time `json:"last_classified,omitempty"`
}

// ProvidersListResponse represents a paginated list of providers.
type ProvidersListResponse struct {
	Providers []ProviderReputationResponse `json:"providers"`
	Total     int                          `json:"total"`
	Page      int                          `json:"page"`
	PerPage   int                          `json:"per_page"`
}

// ImportResponse summarizes an ingestion request.
type ImportResponse struct {
	Provider   string                    `json:"provider"`
	Received   int                       `json:"received"`
	Classified int                       `json:"classified"`
	Failed     int                       `json:"failed"`
	Results    []*domain.ClassifiedEvent `json:"results"`
}

// priorityStringToInt converts dashboard priority strings to database integer values.
func priorityStringToInt(priority string) int {
	switch priority {
	case "high":
		return priorityHigh
	case "normal":
		return priorityNormal
	case "low":
		return priorityLow
	default:
		return priorityNormal
	}
}

// priorityIntToString converts database integer priorities to dashboard strings.
func priorityIntToString(priority int) string {
	if priority >= priorityHighThreshold {
		return "high"
	}
	if priority >= priorityNormalThreshold {
		return "normal"
	}
	return "low"
}

// toRuleResponse converts a domain rule to an API response.
func toRuleResponse(rule *domain.TagRule) RuleResponse {
	return RuleResponse{
		ID:       rule.ID,
		Tag:      rule.Tag,
		Keywords: rule.Keywords,
		Priority: priorityIntToString(rule.Priority),
		Enabled:  rule.Enabled,
	}
}

// toProviderResponse converts a domain provider reputation to an API response.
func toProviderResponse(rep *domain.ProviderReputation) ProviderReputationResponse {
	return ProviderReputationResponse{
		Provider:        rep.Provider,
		Reputation:      rep.ReputationScore,
		TotalEvents:     rep.TotalEvents,
		PartyEvents:     rep.PartyEvents,
		AvgCompleteness: rep.AvgCompleteness,
		JunkCount:       rep.JunkCount,
		LastClassified:  rep.LastClassifiedAt,
	}
}

// ptr returns a pointer to a boolean value.
func ptr(b bool) *bool {
	return &b
}
