package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/partypulse/classifier/internal/domain"
)

// ReputationListFilter holds pagination and filter params for List.
type ReputationListFilter struct {
	Page      int
	PageSize  int
	SortBy    string // reputation, total_events, last_classified_at
	SortOrder string // asc, desc
	Search    string // ILIKE on provider
}

const (
	// Default reputation score for new providers
	defaultReputationScore = 50
)

// ReputationRepository handles database operations for provider reputation.
type ReputationRepository struct {
	db *sqlx.DB
}

// NewReputationRepository creates a new provider reputation repository.
func NewReputationRepository(db *sqlx.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// GetProvider retrieves a provider by name.
func (r *ReputationRepository) GetProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error) {
	var rep domain.ProviderReputation
	query := `
		SELECT id, provider, reputation_score, total_events, party_events,
		       avg_completeness, junk_count, last_classified_at,
		       created_at, updated_at
		FROM provider_reputation
		WHERE provider = $1
	`

	err := r.db.GetContext(ctx, &rep, query, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("provider not found: %s", provider)
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	return &rep, nil
}

// CreateProvider inserts a new provider into the database.
func (r *ReputationRepository) CreateProvider(ctx context.Context, rep *domain.ProviderReputation) error {
	query := `
		INSERT INTO provider_reputation (
			provider, reputation_score, total_events, party_events,
			avg_completeness, junk_count, last_classified_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rep.Provider,
		rep.ReputationScore,
		rep.TotalEvents,
		rep.PartyEvents,
		rep.AvgCompleteness,
		rep.JunkCount,
		rep.LastClassifiedAt,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	return nil
}

// UpdateProvider updates an existing provider.
func (r *ReputationRepository) UpdateProvider(ctx context.Context, rep *domain.ProviderReputation) error {
	query := `
		UPDATE provider_reputation
		SET reputation_score = $1, total_events = $2, party_events = $3,
		    avg_completeness = $4, junk_count = $5, last_classified_at = NOW()
		WHERE provider = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rep.ReputationScore,
		rep.TotalEvents,
		rep.PartyEvents,
		rep.AvgCompleteness,
		rep.JunkCount,
		rep.Provider,
	).Scan(&rep.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("provider not found: %s", rep.Provider)
		}
		return fmt.Errorf("failed to update provider: %w", err)
	}

	return nil
}

// GetOrCreateProvider retrieves a provider or creates it if it doesn't exist.
func (r *ReputationRepository) GetOrCreateProvider(ctx context.Context, provider string) (*domain.ProviderReputation, error) {
	rep, err := r.GetProvider(ctx, provider)
	if err == nil {
		return rep, nil
	}

	newRep := &domain.ProviderReputation{
		Provider:        provider,
		ReputationScore: defaultReputationScore,
	}

	err = r.CreateProvider(ctx, newRep)
	if err != nil {
		// Handle potential race condition where another goroutine created it
		existing, getErr := r.GetProvider(ctx, provider)
		if getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create or get provider: %w", err)
	}

	return newRep, nil
}

// List retrieves providers with pagination, sorting, and filtering.
func (r *ReputationRepository) List(ctx context.Context, filter ReputationListFilter) ([]*domain.ProviderReputation, int, error) {
	offset := (filter.Page - 1) * filter.PageSize

	whereClause, countArgs := buildReputationWhere(filter)
	countQuery := `SELECT COUNT(*) FROM provider_reputation WHERE 1=1` + whereClause
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	orderClause := buildReputationOrder(filter)
	argCount := len(countArgs)
	const (
		limitParamIdx  = 1
		offsetParamIdx = 2
	)
	limitPlaceholder := argCount + limitParamIdx
	offsetPlaceholder := argCount + offsetParamIdx
	query := `
		SELECT id, provider, reputation_score, total_events, party_events,
		       avg_completeness, junk_count, last_classified_at,
		       created_at, updated_at
		FROM provider_reputation
		WHERE 1=1` + whereClause + orderClause + fmt.Sprintf(`
		LIMIT $%d OFFSET $%d`, limitPlaceholder, offsetPlaceholder)

	args := append(append([]any{}, countArgs...), filter.PageSize, offset)
	var providers []*domain.ProviderReputation
	err = r.db.SelectContext(ctx, &providers, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list providers: %w", err)
	}

	return providers, total, nil
}

func buildReputationWhere(filter ReputationListFilter) (whereClause string, args []any) {
	args = make([]any, 0)

	if filter.Search != "" {
		whereClause = " AND provider ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}
	return
}

func buildReputationOrder(filter ReputationListFilter) string {
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "reputation"
	}
	columnMap := map[string]string{
		"name":               "provider",
		"reputation":         "reputation_score",
		"total_events":       "total_events",
		"party_events":       "party_events",
		"last_classified_at": "last_classified_at",
	}
	column, ok := columnMap[sortBy]
	if !ok {
		column = "reputation_score"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, total_events DESC", column, order)
}
