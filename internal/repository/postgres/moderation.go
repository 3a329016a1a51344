package postgres

import (
	"context"
	"fmt"

	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresModerationRepository implements the ModerationRepository interface
type PostgresModerationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewModerationRepository creates a new moderation repository
func NewModerationRepository(config *RepositoryConfig) repositories.ModerationRepository {
	return &PostgresModerationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetModerator returns the moderator record, creating an empty one on first
// contact so the caller never distinguishes "new moderator" from "no job".
func (r *PostgresModerationRepository) GetModerator(ctx context.Context, id string) (*models.Moderator, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, assigned_variant_id)
		VALUES ($1, NULL)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING id, assigned_variant_id
	`, r.tables.Moderators)

	var moderator models.Moderator
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&moderator.ID,
		&moderator.AssignedVariantID,
	)
	if err != nil {
		return nil, fmt.Errorf("get moderator: %w", err)
	}

	return &moderator, nil
}

// SetAssignment writes (or clears, with nil) the moderator's open job
func (r *PostgresModerationRepository) SetAssignment(ctx context.Context, moderatorID string, variantID *string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, assigned_variant_id)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET assigned_variant_id = EXCLUDED.assigned_variant_id
	`, r.tables.Moderators)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, moderatorID, variantID); err != nil {
		return fmt.Errorf("set moderator assignment: %w", err)
	}

	return nil
}

// CreateRating appends a rating row
func (r *PostgresModerationRepository) CreateRating(ctx context.Context, rating *models.ModerationRating) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, moderator_id, variant_id, is_approved, rated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.ModerationRatings)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		rating.ID,
		rating.ModeratorID,
		rating.VariantID,
		rating.IsApproved,
		rating.RatedAt,
	)
	if err != nil {
		return fmt.Errorf("create moderation rating: %w", err)
	}

	return nil
}

// CreateReport appends a reader report row
func (r *PostgresModerationRepository) CreateReport(ctx context.Context, report *models.ModerationReport) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, variant_slug, created_at)
		VALUES ($1, $2, $3)
	`, r.tables.ModerationReports)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		report.ID,
		report.VariantSlug,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create moderation report: %w", err)
	}

	return nil
}
