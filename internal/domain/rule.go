package domain

import "time"

// TagRule represents an operator-defined keyword rule. Matching events
// get the rule's tag attached (e.g. a city-specific promo tag). Tag rules
// are additive; they never override the fixed party tables.
type TagRule struct {
	ID            int       `db:"id"             json:"id"`
	RuleName      string    `db:"rule_name"      json:"rule_name"`
	Tag           string    `db:"tag"            json:"tag"`
	Keywords      []string  `db:"keywords"       json:"keywords"`
	MinConfidence float64   `db:"min_confidence" json:"min_confidence"`
	Enabled       bool      `db:"enabled"        json:"enabled"`
	Priority      int       `db:"priority"       json:"priority"` // Higher priority rules sort first
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// ProviderReputation tracks per-provider classification outcomes.
type ProviderReputation struct {
	ID               int        `db:"id"                 json:"id"`
	Provider         string     `db:"provider"           json:"provider"`
	ReputationScore  int        `db:"reputation_score"   json:"reputation_score"` // 0-100
	TotalEvents      int        `db:"total_events"       json:"total_events"`
	PartyEvents      int        `db:"party_events"       json:"party_events"`
	AvgCompleteness  float64    `db:"avg_completeness"   json:"avg_completeness"`
	JunkCount        int        `db:"junk_count"         json:"junk_count"`
	LastClassifiedAt *time.Time `db:"last_classified_at" json:"last_classified_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"         json:"updated_at"`
}
