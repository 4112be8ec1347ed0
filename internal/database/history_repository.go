package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/partypulse/classifier/internal/domain"
)

// HistoryRepository handles database operations for classification history.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new classification history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ClassificationStats represents overall classification statistics.
type ClassificationStats struct {
	TotalClassified     int            `json:"total_classified"`
	PartyEvents         int            `json:"party_events"`
	AvgPartyScore       float64        `json:"avg_party_score"`
	AvgCompleteness     float64        `json:"avg_completeness"`
	AvgProcessingTimeMs float64        `json:"avg_processing_time_ms"`
	Subcategories       map[string]int `json:"subcategories"`
}

// SubcategoryStat represents statistics for a single party subcategory.
type SubcategoryStat struct {
	Subcategory   string  `db:"subcategory"     json:"subcategory"`
	Count         int     `db:"count"           json:"count"`
	AvgPartyScore float64 `db:"avg_party_score" json:"avg_party_score,omitempty"`
}

// ProviderStat represents statistics for a single provider.
type ProviderStat struct {
	Provider        string  `db:"provider"         json:"provider"`
	Count           int     `db:"count"            json:"count"`
	PartyCount      int     `db:"party_count"      json:"party_count"`
	AvgCompleteness float64 `db:"avg_completeness" json:"avg_completeness,omitempty"`
}

// Create inserts a new classification history record.
func (r *HistoryRepository) Create(ctx context.Context, history *domain.ClassificationHistory) error {
	query := `
		INSERT INTO classification_history (
			event_id, provider, event_url, is_party, party_subcategory,
			party_confidence, party_score, completeness_score,
			classifier_version, processing_time_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, classified_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		history.EventID,
		history.Provider,
		history.EventURL,
		history.IsParty,
		history.PartySubcategory,
		history.PartyConfidence,
		history.PartyScore,
		history.CompletenessScore,
		history.ClassifierVersion,
		history.ProcessingTimeMs,
	).Scan(&history.ID, &history.ClassifiedAt)

	if err != nil {
		return fmt.Errorf("failed to create classification history: %w", err)
	}

	return nil
}

// GetByEventID retrieves the latest classification record for an event.
func (r *HistoryRepository) GetByEventID(ctx context.Context, eventID string) (*domain.ClassificationHistory, error) {
	var history domain.ClassificationHistory
	query := `
		SELECT id, event_id, provider, event_url, is_party, party_subcategory,
		       party_confidence, party_score, completeness_score,
		       classifier_version, processing_time_ms, classified_at
		FROM classification_history
		WHERE event_id = $1
		ORDER BY classified_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &history, query, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("classification history not found: %s", eventID)
		}
		return nil, fmt.Errorf("failed to get classification history: %w", err)
	}

	return &history, nil
}

// GetStats retrieves overall classification statistics.
func (r *HistoryRepository) GetStats(ctx context.Context) (*ClassificationStats, error) {
	var stats ClassificationStats

	query := `
		SELECT
			COUNT(*) as total_classified,
			SUM(CASE WHEN is_party THEN 1 ELSE 0 END) as party_events,
			COALESCE(AVG(party_score) FILTER (WHERE is_party), 0) as avg_party_score,
			COALESCE(AVG(completeness_score), 0) as avg_completeness,
			COALESCE(AVG(processing_time_ms), 0) as avg_processing_time_ms
		FROM classification_history
	`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalClassified,
		&stats.PartyEvents,
		&stats.AvgPartyScore,
		&stats.AvgCompleteness,
		&stats.AvgProcessingTimeMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get classification stats: %w", err)
	}

	// Get subcategory distribution
	stats.Subcategories = make(map[string]int)
	subQuery := `
		SELECT party_subcategory, COUNT(*) as count
		FROM classification_history
		WHERE is_party AND party_subcategory <> ''
		GROUP BY party_subcategory
	`

	rows, err := r.db.QueryContext(ctx, subQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subcategory string
		var count int
		if err := rows.Scan(&subcategory, &count); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		stats.Subcategories[subcategory] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return &stats, nil
}

// GetSubcategoryStats retrieves subcategory distribution statistics.
func (r *HistoryRepository) GetSubcategoryStats(ctx context.Context) ([]*SubcategoryStat, error) {
	var stats []*SubcategoryStat

	query := `
		SELECT
			party_subcategory as subcategory,
			COUNT(*) as count,
			COALESCE(AVG(party_score), 0) as avg_party_score
		FROM classification_history
		WHERE is_party AND party_subcategory <> ''
		GROUP BY party_subcategory
		ORDER BY count DESC
		LIMIT 20
	`

	err := r.db.SelectContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory stats: %w", err)
	}

	return stats, nil
}

// GetProviderStats retrieves provider distribution statistics.
func (r *HistoryRepository) GetProviderStats(ctx context.Context) ([]*ProviderStat, error) {
	var stats []*ProviderStat

	query := `
		SELECT
			provider,
			COUNT(*) as count,
			SUM(CASE WHEN is_party THEN 1 ELSE 0 END) as party_count,
			COALESCE(AVG(completeness_score), 0) as avg_completeness
		FROM classification_history
		GROUP BY provider
		ORDER BY count DESC
		LIMIT 50
	`

	err := r.db.SelectContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider stats: %w", err)
	}

	return stats, nil
}

// GetProviderStatsByName retrieves statistics for a specific provider.
func (r *HistoryRepository) GetProviderStatsByName(ctx context.Context, provider string) (*ProviderStat, error) {
	var stat ProviderStat

	query := `
		SELECT
			provider,
			COUNT(*) as count,
			SUM(CASE WHEN is_party THEN 1 ELSE 0 END) as party_count,
			COALESCE(AVG(completeness_score), 0) as avg_completeness
		FROM classification_history
		WHERE provider = $1
		GROUP BY provider
	`

	err := r.db.GetContext(ctx, &stat, query, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ProviderStat{Provider: provider}, nil
		}
		return nil, fmt.Errorf("failed to get provider stats: %w", err)
	}

	return &stat, nil
}
