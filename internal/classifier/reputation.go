// classifier/internal/classifier/reputation.go
package classifier

import (
	"context"
	"fmt"

	"github.com/partypulse/classifier/internal/domain"
)

// ProviderReputationScorer evaluates and tracks how useful each upstream
// event provider's records have been.
type ProviderReputationScorer struct {
	logger Logger
	db     ProviderReputationDB
	config ProviderReputationConfig
}

// ProviderReputationDB defines the interface for database operations.
type ProviderReputationDB interface {
	GetProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error)
	CreateProvider(ctx context.Context, rep *domain.ProviderReputation) error
	UpdateProvider(ctx context.Context, rep *domain.ProviderReputation) error
	GetOrCreateProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error)
}

// ProviderReputationConfig defines configuration for reputation scoring.
type ProviderReputationConfig struct {
	DefaultScore               int     // Score for providers with no history (0-100)
	UpdateOnEachClassification bool    // Whether to update after each classification
	JunkThreshold              int     // Completeness score below which a record counts as junk
	MinEventsForTrust          int     // Minimum events before a provider is established
	ReputationDecayRate        float64 // Junk ratio penalty weight (0.0-1.0)
}

// Reputation rank thresholds.
const (
	rankTrustedScore  = 75
	rankModerateScore = 50
	rankLowScore      = 30

	trustedCompletenessFloor = 70
	trustedJunkRatioCeil     = 0.05
	trustedBoost             = 1.1
)

// ProviderReputationResult represents the result of reputation scoring.
type ProviderReputationResult struct {
	Score int    `json:"score"` // 0-100
	Rank  string `json:"rank"`  // "trusted", "moderate", "low", "junk"
}

// NewProviderReputationScorer creates a scorer with default config.
func NewProviderReputationScorer(logger Logger, db ProviderReputationDB) *ProviderReputationScorer {
	return &ProviderReputationScorer{
		logger: logger,
		db:     db,
		config: ProviderReputationConfig{
			DefaultScore:               50,
			UpdateOnEachClassification: true,
			JunkThreshold:              30,
			MinEventsForTrust:          10,
			ReputationDecayRate:        0.1,
		},
	}
}

// NewProviderReputationScorerWithConfig creates a scorer with custom config.
func NewProviderReputationScorerWithConfig(
	logger Logger,
	db ProviderReputationDB,
	config ProviderReputationConfig,
) *ProviderReputationScorer {
	return &ProviderReputationScorer{
		logger: logger,
		db:     db,
		config: config,
	}
}

// Score retrieves or calculates the reputation score for a provider.
func (s *ProviderReputationScorer) Score(ctx context.Context, provider string) (*ProviderReputationResult, error) {
	record, err := s.db.GetOrCreateProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	score := s.calculateReputationScore(record)
	rank := s.determineRank(score, record.TotalEvents)

	s.logger.Debug("Provider reputation scored",
		"provider", provider,
		"score", score,
		"rank", rank,
		"total_events", record.TotalEvents,
	)

	return &ProviderReputationResult{Score: score, Rank: rank}, nil
}

// UpdateAfterClassification updates provider stats after classifying an
// event.
func (s *ProviderReputationScorer) UpdateAfterClassification(
	ctx context.Context,
	provider string,
	completenessScore int,
	isParty bool,
) error {
	if !s.config.UpdateOnEachClassification {
		return nil
	}

	record, err := s.db.GetOrCreateProvider(ctx, provider)
	if err != nil {
		return fmt.Errorf("failed to get provider for update: %w", err)
	}

	record.TotalEvents++
	if isParty {
		record.PartyEvents++
	}

	// Rolling average of completeness
	if record.TotalEvents == 1 {
		record.AvgCompleteness = float64(completenessScore)
	} else {
		record.AvgCompleteness = (record.AvgCompleteness*float64(record.TotalEvents-1) +
			float64(completenessScore)) / float64(record.TotalEvents)
	}

	if completenessScore < s.config.JunkThreshold {
		record.JunkCount++
	}

	record.ReputationScore = s.calculateReputationScore(record)

	if err := s.db.UpdateProvider(ctx, record); err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	s.logger.Debug("Provider reputation updated",
		"provider", provider,
		"new_score", record.ReputationScore,
		"total_events", record.TotalEvents,
		"avg_completeness", record.AvgCompleteness,
		"junk_count", record.JunkCount,
	)

	return nil
}

// calculateReputationScore derives a 0-100 reputation from history.
func (s *ProviderReputationScorer) calculateReputationScore(record *domain.ProviderReputation) int {
	if record.TotalEvents == 0 {
		return s.config.DefaultScore
	}

	score := record.AvgCompleteness

	junkRatio := float64(record.JunkCount) / float64(record.TotalEvents)
	score *= 1.0 - junkRatio*s.config.ReputationDecayRate

	// Boost established providers with a clean track record
	if record.TotalEvents >= s.config.MinEventsForTrust &&
		record.AvgCompleteness >= trustedCompletenessFloor &&
		junkRatio < trustedJunkRatioCeil {
		score *= trustedBoost
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// determineRank maps a score and history depth to a rank label.
func (s *ProviderReputationScorer) determineRank(score, totalEvents int) string {
	isEstablished := totalEvents >= s.config.MinEventsForTrust

	switch {
	case score >= rankTrustedScore && isEstablished:
		return "trusted"
	case score >= rankModerateScore:
		return "moderate"
	case score >= rankLowScore:
		return "low"
	default:
		return "junk"
	}
}
