package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/partypulse/classifier/internal/domain"
)

// RulesRepository handles database operations for tag rules.
type RulesRepository struct {
	db *sqlx.DB
}

// NewRulesRepository creates a new rules repository.
func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// Create inserts a new rule into the database.
func (r *RulesRepository) Create(ctx context.Context, rule *domain.TagRule) error {
	query := `
		INSERT INTO tag_rules (rule_name, tag, keywords, min_confidence, enabled, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rule.RuleName,
		rule.Tag,
		pq.Array(rule.Keywords),
		rule.MinConfidence,
		rule.Enabled,
		rule.Priority,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// GetByID retrieves a rule by its ID.
func (r *RulesRepository) GetByID(ctx context.Context, id int) (*domain.TagRule, error) {
	var rule domain.TagRule
	query := `
		SELECT id, rule_name, tag, keywords, min_confidence, enabled, priority,
		       created_at, updated_at
		FROM tag_rules
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rule.ID,
		&rule.RuleName,
		&rule.Tag,
		pq.Array(&rule.Keywords),
		&rule.MinConfidence,
		&rule.Enabled,
		&rule.Priority,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return &rule, nil
}

// List retrieves all rules, optionally filtered by enabled state.
func (r *RulesRepository) List(ctx context.Context, enabled *bool) ([]*domain.TagRule, error) {
	var rules []*domain.TagRule
	var args []any

	query := `
		SELECT id, rule_name, tag, keywords, min_confidence, enabled, priority,
		       created_at, updated_at
		FROM tag_rules
	`

	if enabled != nil {
		query += " WHERE enabled = $1"
		args = append(args, *enabled)
	}

	query += " ORDER BY priority DESC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var rule domain.TagRule
		if err = rows.Scan(
			&rule.ID,
			&rule.RuleName,
			&rule.Tag,
			pq.Array(&rule.Keywords),
			&rule.MinConfidence,
			&rule.Enabled,
			&rule.Priority,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, &rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// Update updates an existing rule.
func (r *RulesRepository) Update(ctx context.Context, rule *domain.TagRule) error {
	query := `
		UPDATE tag_rules
		SET rule_name = $1, tag = $2, keywords = $3,
		    min_confidence = $4, enabled = $5, priority = $6
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rule.RuleName,
		rule.Tag,
		pq.Array(rule.Keywords),
		rule.MinConfidence,
		rule.Enabled,
		rule.Priority,
		rule.ID,
	).Scan(&rule.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("rule not found: %d", rule.ID)
		}
		return fmt.Errorf("failed to update rule: %w", err)
	}

	return nil
}

// Delete removes a rule from the database.
func (r *RulesRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tag_rules WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("rule not found: %d", id)
	}

	return nil
}

// Count returns the total number of rules.
func (r *RulesRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tag_rules`

	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}

	return count, nil
}
