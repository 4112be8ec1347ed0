package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/partypulse/classifier/internal/domain"
)

// Classifier orchestrates all classification strategies
type Classifier struct {
	completeness *CompletenessScorer
	reputation   *ProviderReputationScorer
	tagEngine    *TagRuleEngine
	logger       Logger
	version      string
	updateRep    bool
}

// Config holds configuration for the classifier
type Config struct {
	Version           string
	UpdateProviderRep bool
	ReputationConfig  ProviderReputationConfig
}

// NewClassifier creates a new classifier with all strategies
func NewClassifier(
	logger Logger,
	rules []*domain.TagRule,
	repDB ProviderReputationDB,
	tagEngine *TagRuleEngine,
	config Config,
) *Classifier {
	if tagEngine == nil {
		tagEngine = NewTagRuleEngine(rules, logger, nil)
	}
	return &Classifier{
		completeness: NewCompletenessScorer(logger),
		reputation:   NewProviderReputationScorerWithConfig(logger, repDB, config.ReputationConfig),
		tagEngine:    tagEngine,
		logger:       logger,
		version:      config.Version,
		updateRep:    config.UpdateProviderRep,
	}
}

// Classify performs full classification on a raw event
func (c *Classifier) Classify(ctx context.Context, raw *domain.RawEvent) (*domain.EventClassification, error) {
	startTime := time.Now()

	c.logger.Debug("Starting classification",
		"event_id", raw.ID,
		"provider", raw.Provider,
		"title", raw.Title,
	)

	// 1. Party detection
	det := detectParty(raw.Title, raw.Description, raw.VenueName, raw.StartTime)

	// 2. Subcategory assignment for party events
	var party domain.PartyClassification
	if det.isParty {
		party = ClassifySubcategory(raw.Title, raw.Description, raw.StartTime, raw.VenueName)
	}

	// 3. Relevance score for party events
	score := 0
	if det.isParty {
		score = PartyScore(raw.Title, raw.Description, raw.StartTime, party.PrimaryCategory, raw.VenueName)
	}

	// 4. Completeness scoring
	completeness, err := c.completeness.Score(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("completeness scoring failed: %w", err)
	}

	// 5. Operator tag rules
	var tags []string
	var tagScores map[string]float64
	if c.tagEngine != nil {
		matches := c.tagEngine.Match(raw.Title, raw.Description)
		if len(matches) > 0 {
			tags = make([]string, 0, len(matches))
			tagScores = make(map[string]float64, len(matches))
			for _, m := range matches {
				if _, seen := tagScores[m.Rule.Tag]; seen {
					continue
				}
				tags = append(tags, m.Rule.Tag)
				tagScores[m.Rule.Tag] = m.Score
			}
		}
	}

	// Update provider reputation; a failure here never fails the
	// classification itself
	if c.updateRep && c.reputation != nil {
		if repErr := c.reputation.UpdateAfterClassification(ctx, raw.Provider, completeness.TotalScore, det.isParty); repErr != nil {
			c.logger.Warn("Failed to update provider reputation",
				"provider", raw.Provider,
				"error", repErr,
			)
		}
	}

	category := domain.CategoryEvent
	if det.isParty {
		category = domain.CategoryParty
	}

	// Merge subcategory evidence into the detection evidence
	evidence := mergeEvidence(det.evidence, party.Evidence)

	result := &domain.EventClassification{
		EventID:             raw.ID,
		Provider:            raw.Provider,
		IsParty:             det.isParty,
		Category:            category,
		PartySubcategory:    party.PrimaryCategory,
		SecondaryCategories: party.SecondaryCategories,
		PartyConfidence:     party.Confidence,
		PartyScore:          score,
		Evidence:            evidence,
		CompletenessScore:   completeness.TotalScore,
		CompletenessFactors: completeness.Factors,
		Tags:                tags,
		TagScores:           tagScores,
		ClassifierVersion:   c.version,
		ProcessingTimeMs:    time.Since(startTime).Milliseconds(),
		ClassifiedAt:        time.Now(),
	}

	c.logger.Info("Classification complete",
		"event_id", raw.ID,
		"is_party", result.IsParty,
		"subcategory", string(result.PartySubcategory),
		"party_score", result.PartyScore,
		"decision", det.decision,
		"processing_time_ms", result.ProcessingTimeMs,
	)

	return result, nil
}

// ClassifyBatch classifies multiple raw events
func (c *Classifier) ClassifyBatch(ctx context.Context, rawItems []*domain.RawEvent) ([]*domain.EventClassification, error) {
	results := make([]*domain.EventClassification, len(rawItems))

	for i, raw := range rawItems {
		result, err := c.Classify(ctx, raw)
		if err != nil {
			c.logger.Error("Batch classification failed for item",
				"index", i,
				"event_id", raw.ID,
				"error", err,
			)
			// Continue with next item instead of failing entire batch
			continue
		}
		results[i] = result
	}

	return results, nil
}

// UpdateRules hot-reloads the operator tag rules
func (c *Classifier) UpdateRules(rules []domain.TagRule) {
	if c.tagEngine != nil {
		c.tagEngine.UpdateRules(rules)
	}
}

// GetRules returns the current tag rules
func (c *Classifier) GetRules() []*domain.TagRule {
	if c.tagEngine == nil {
		return nil
	}
	return c.tagEngine.GetRules()
}

// Reputation exposes the provider reputation scorer
func (c *Classifier) Reputation() *ProviderReputationScorer {
	return c.reputation
}

// BuildClassifiedEvent converts a RawEvent + EventClassification into the
// flattened document indexed downstream
func (c *Classifier) BuildClassifiedEvent(raw *domain.RawEvent, result *domain.EventClassification) *domain.ClassifiedEvent {
	return &domain.ClassifiedEvent{
		RawEvent:            *raw,
		IsParty:             result.IsParty,
		Category:            result.Category,
		PartySubcategory:    result.PartySubcategory,
		SecondaryCategories: result.SecondaryCategories,
		PartyConfidence:     result.PartyConfidence,
		PartyScore:          result.PartyScore,
		CompletenessScore:   result.CompletenessScore,
		Tags:                result.Tags,
		ClassifierVersion:   result.ClassifierVersion,
	}
}

// mergeEvidence folds subcategory evidence buckets into the detection
// evidence, preserving order and dropping duplicates
func mergeEvidence(base, extra domain.Evidence) domain.Evidence {
	base.TitleMatches = appendUnique(base.TitleMatches, extra.TitleMatches)
	base.DescriptionMatches = appendUnique(base.DescriptionMatches, extra.DescriptionMatches)
	base.VenueMatches = appendUnique(base.VenueMatches, extra.VenueMatches)
	base.TimeMatches = appendUnique(base.TimeMatches, extra.TimeMatches)
	base.PatternMatches = appendUnique(base.PatternMatches, extra.PatternMatches)
	base.EntityMatches = appendUnique(base.EntityMatches, extra.EntityMatches)
	return base
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		dup := false
		for _, existing := range dst {
			if existing == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}
