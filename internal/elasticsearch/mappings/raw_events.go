package mappings

// RawEventsMapping represents the Elasticsearch mapping for raw events
type RawEventsMapping struct {
	Settings RawEventsSettings `json:"settings"`
	Mappings RawEventsMappings `json:"mappings"`
}

// RawEventsSettings defines index-level settings
type RawEventsSettings struct {
	BaseSettings
}

// RawEventsMappings defines the field mappings for raw events
type RawEventsMappings struct {
	Properties RawEventsProperties `json:"properties"`
}

// RawEventsProperties defines the properties for each field in the raw
// events mapping
type RawEventsProperties struct {
	// Core identifiers
	ID       Field `json:"id"`
	Provider Field `json:"provider"`
	URL      Field `json:"url"`

	// Classifier input fields
	Title       Field `json:"title"`
	Description Field `json:"description"`
	VenueName   Field `json:"venue_name"`
	StartTime   Field `json:"start_time"`

	// Display fields
	Date     Field `json:"date"`
	City     Field `json:"city"`
	Location Field `json:"location"`
	ImageURL Field `json:"image_url"`

	// Timestamps
	FetchedAt Field `json:"fetched_at"`

	// Processing status
	ClassificationStatus Field `json:"classification_status"`
	ClassifiedAt         Field `json:"classified_at"`
}

// NewRawEventsMapping creates a new raw events mapping with default settings
func NewRawEventsMapping() *RawEventsMapping {
	return &RawEventsMapping{
		Settings: RawEventsSettings{
			BaseSettings: DefaultSettings(),
		},
		Mappings: RawEventsMappings{
			Properties: RawEventsProperties{
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
					Type: "keyword", // Free-form "HH:MM", not a date
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
			},
		},
	}
}

// GetJSON returns the raw events mapping as a JSON string
func (m *RawEventsMapping) GetJSON() (string, error) {
	return ToJSON(m)
}

// Validate validates the raw events mapping configuration
func (m *RawEventsMapping) Validate() error {
	return ValidateSettings(m.Settings.BaseSettings)
}
