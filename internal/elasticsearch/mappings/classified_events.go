package mappings

// ClassifiedEventsMapping represents the Elasticsearch mapping for
// classified events
type ClassifiedEventsMapping struct {
	Settings ClassifiedEventsSettings `json:"settings"`
	Mappings ClassifiedEventsMappings `json:"mappings"`
}

// ClassifiedEventsSettings defines index-level settings
type ClassifiedEventsSettings struct {
	BaseSettings
}

// ClassifiedEventsMappings defines the field mappings for classified events
type ClassifiedEventsMappings struct {
	Properties ClassifiedEventsProperties `json:"properties"`
}

// ClassifiedEventsProperties defines the properties for each field in the
// classified events mapping. This includes all raw event fields PLUS
// classification results.
type ClassifiedEventsProperties struct {
	// ===== Raw Event Fields =====
	ID       Field `json:"id"`
	Provider Field `json:"provider"`
	URL      Field `json:"url"`

	Title       Field `json:"title"`
	Description Field `json:"description"`
	VenueName   Field `json:"venue_name"`
	StartTime   Field `json:"start_time"`

	Date     Field `json:"date"`
	City     Field `json:"city"`
	Location Field `json:"location"`
	ImageURL Field `json:"image_url"`

	FetchedAt Field `json:"fetched_at"`

	ClassificationStatus Field `json:"classification_status"`
	ClassifiedAt         Field `json:"classified_at"`

	// ===== Classification Results =====
	IsParty  Field `json:"is_party"`
	Category Field `json:"category"`

	PartySubcategory    Field `json:"party_subcategory"`
	SecondaryCategories Field `json:"secondary_categories"` // keyword array
	PartyConfidence     Field `json:"party_confidence"`
	PartyScore          Field `json:"party_score"`

	CompletenessScore Field `json:"completeness_score"`

	Tags Field `json:"tags"` // keyword array

	ClassifierVersion Field `json:"classifier_version"`
}

// NewClassifiedEventsMapping creates a new classified events mapping with
// default settings
func NewClassifiedEventsMapping() *ClassifiedEventsMapping {
	return &ClassifiedEventsMapping{
		Settings: ClassifiedEventsSettings{
			BaseSettings: DefaultSettings(),
		},
		Mappings: ClassifiedEventsMappings{
			Properties: ClassifiedEventsProperties{
				// ===== Raw Event Fields =====
				ID: Field{
					Type: "keyword",
				},
				Provider: Field{
					Type: "keyword",
				},
				URL: Field{
					Type: "keyword",
				},
				Title: Field{
					Type:     "text",
					Analyzer: "standard",
				},
				Description: Field{
					Type:     "text",
					Analyzer: "standard",
				},
				VenueName: Field{
					Type:     "text",
					Analyzer: "standard",
				},
				StartTime: Field{
					Type: "keyword",
				},
				Date: Field{
					Type:   "date",
					Format: "strict_date_optional_time||yyyy-MM-dd",
				},
				City: Field{
					Type: "keyword",
				},
				Location: Field{
					Type: "geo_point",
				},
				ImageURL: Field{
					Type: "keyword",
				},
				FetchedAt: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},
				ClassificationStatus: Field{
					Type: "keyword",
				},
				ClassifiedAt: Field{
					Type:   "date",
					Format: "strict_date_optional_time||epoch_millis",
				},

				// ===== Classification Results =====
				IsParty: Field{
					Type: "boolean",
				},
				Category: Field{
					Type: "keyword",
				},
				PartySubcategory: Field{
					Type: "keyword",
				},
				SecondaryCategories: Field{
					Type: "keyword", // Array of keywords
				},
				PartyConfidence: Field{
					Type: "integer",
				},
				PartyScore: Field{
					Type: "integer",
				},
				CompletenessScore: Field{
					Type: "integer",
				},
				Tags: Field{
					Type: "keyword", // Array of keywords
				},
				ClassifierVersion: Field{
					Type: "keyword",
				},
			},
		},
	}
}

// GetJSON returns the classified events mapping as a JSON string
func (m *ClassifiedEventsMapping) GetJSON() (string, error) {
	return ToJSON(m)
}

// Validate validates the classified events mapping configuration
func (m *ClassifiedEventsMapping) Validate() error {
	return ValidateSettings(m.Settings.BaseSettings)
}
