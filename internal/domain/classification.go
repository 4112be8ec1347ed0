package domain

import "time"

// PartySubcategory is a closed enumeration of party type tags.
type PartySubcategory string

// Party subcategory tags. SubcategoryOrder below fixes the enumeration
// order used for deterministic tie-breaking; keep the two in sync.
const (
	SubcategoryDayParty    PartySubcategory = "day-party"
	SubcategorySocial      PartySubcategory = "social"
	SubcategoryBrunch      PartySubcategory = "brunch"
	SubcategoryClub        PartySubcategory = "club"
	SubcategoryNetworking  PartySubcategory = "networking"
	SubcategoryCelebration PartySubcategory = "celebration"
	SubcategoryImmersive   PartySubcategory = "immersive"
	SubcategoryPopup       PartySubcategory = "popup"
	SubcategorySilent      PartySubcategory = "silent"
	SubcategoryRooftop     PartySubcategory = "rooftop"
	SubcategoryThemed      PartySubcategory = "themed"
	SubcategoryExclusive   PartySubcategory = "exclusive"
	SubcategoryUnderground PartySubcategory = "underground"
	SubcategoryFestival    PartySubcategory = "festival"
	SubcategoryHoliday     PartySubcategory = "holiday"
	SubcategoryGeneral     PartySubcategory = "general"
)

// SubcategoryOrder is the fixed enumeration order of all subcategories.
// Primary selection breaks confidence ties by first occurrence here.
var SubcategoryOrder = []PartySubcategory{
	SubcategoryDayParty,
	SubcategorySocial,
	SubcategoryBrunch,
	SubcategoryClub,
	SubcategoryNetworking,
	SubcategoryCelebration,
	SubcategoryImmersive,
	SubcategoryPopup,
	SubcategorySilent,
	SubcategoryRooftop,
	SubcategoryThemed,
	SubcategoryExclusive,
	SubcategoryUnderground,
	SubcategoryFestival,
	SubcategoryHoliday,
	SubcategoryGeneral,
}

// Valid reports whether s is one of the defined subcategory tags.
func (s PartySubcategory) Valid() bool {
	for _, sc := range SubcategoryOrder {
		if s == sc {
			return true
		}
	}
	return false
}

// Evidence records why a classification fired: matched keywords and
// phrases bucketed by signal source. Explainability only; it never feeds
// back into decisions.
type Evidence struct {
	TitleMatches       []string `json:"title_matches,omitempty"`
	DescriptionMatches []string `json:"description_matches,omitempty"`
	VenueMatches       []string `json:"venue_matches,omitempty"`
	TimeMatches        []string `json:"time_matches,omitempty"`
	PatternMatches     []string `json:"pattern_matches,omitempty"`
	EntityMatches      []string `json:"entity_matches,omitempty"`
}

// SignalCount returns how many distinct evidence buckets are non-empty.
func (e *Evidence) SignalCount() int {
	count := 0
	for _, bucket := range [][]string{
		e.TitleMatches, e.DescriptionMatches, e.VenueMatches,
		e.TimeMatches, e.PatternMatches, e.EntityMatches,
	} {
		if len(bucket) > 0 {
			count++
		}
	}
	return count
}

// PartyClassification is the immutable result of subcategory assignment.
type PartyClassification struct {
	PrimaryCategory     PartySubcategory   `json:"primary_category"`
	SecondaryCategories []PartySubcategory `json:"secondary_categories"`
	Confidence          int                `json:"confidence"` // 0-100
	Evidence            Evidence           `json:"evidence"`
}

// EventClassification is the full enriched result attached to an event.
type EventClassification struct {
	EventID  string `json:"event_id"`
	Provider string `json:"provider"`

	// Party detection
	IsParty  bool   `json:"is_party"`
	Category string `json:"category"` // "party" or "event"

	// Subcategory assignment (party events only)
	PartySubcategory    PartySubcategory   `json:"party_subcategory,omitempty"`
	SecondaryCategories []PartySubcategory `json:"secondary_categories,omitempty"`
	PartyConfidence     int                `json:"party_confidence"` // 0-100
	PartyScore          int                `json:"party_score"`      // 0-100 relevance
	Evidence            Evidence           `json:"evidence"`

	// Record quality
	CompletenessScore   int            `json:"completeness_score"` // 0-100
	CompletenessFactors map[string]any `json:"completeness_factors,omitempty"`

	// Operator-defined tag rules
	Tags      []string           `json:"tags,omitempty"`
	TagScores map[string]float64 `json:"tag_scores,omitempty"`

	// Metadata
	ClassifierVersion string    `json:"classifier_version"`
	ProcessingTimeMs  int64     `json:"processing_time_ms"`
	ClassifiedAt      time.Time `json:"classified_at"`
}

// Category constants for EventClassification.Category.
const (
	CategoryParty = "party"
	CategoryEvent = "event"
)

// ClassifiedEvent is the full enriched document indexed into
// Elasticsearch: RawEvent plus flattened classification fields.
type ClassifiedEvent struct {
	RawEvent

	IsParty             bool               `json:"is_party"`
	Category            string             `json:"category"`
	PartySubcategory    PartySubcategory   `json:"party_subcategory,omitempty"`
	SecondaryCategories []PartySubcategory `json:"secondary_categories,omitempty"`
	PartyConfidence     int                `json:"party_confidence"`
	PartyScore          int                `json:"party_score"`
	CompletenessScore   int                `json:"completeness_score"`
	Tags                []string           `json:"tags,omitempty"`
	ClassifierVersion   string             `json:"classifier_version"`
}

// ClassificationHistory is the audit trail row for a classification.
type ClassificationHistory struct {
	ID                int              `db:"id"                 json:"id"`
	EventID           string           `db:"event_id"           json:"event_id"`
	Provider          string           `db:"provider"           json:"provider"`
	EventURL          string           `db:"event_url"          json:"event_url,omitempty"`
	IsParty           bool             `db:"is_party"           json:"is_party"`
	PartySubcategory  PartySubcategory `db:"party_subcategory"  json:"party_subcategory,omitempty"`
	PartyConfidence   int              `db:"party_confidence"   json:"party_confidence"`
	PartyScore        int              `db:"party_score"        json:"party_score"`
	CompletenessScore int              `db:"completeness_score" json:"completeness_score"`
	ClassifierVersion string           `db:"classifier_version" json:"classifier_version"`
	ProcessingTimeMs  int64            `db:"processing_time_ms" json:"processing_time_ms"`
	ClassifiedAt      time.Time        `db:"classified_at"      json:"classified_at"`
}
