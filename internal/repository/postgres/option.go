package postgres

import (
	"context"
	"fmt"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOptionRepository implements the OptionRepository interface
type PostgresOptionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOptionRepository creates a new option repository
func NewOptionRepository(config *RepositoryConfig) repositories.OptionRepository {
	return &PostgresOptionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new option
func (r *PostgresOptionRepository) Create(ctx context.Context, option *models.Option) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, variant_id, content, target_page_id, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Options)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		option.ID,
		option.VariantID,
		option.Content,
		option.TargetPageID,
		option.Position,
		option.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("option position %d already exists on variant %s", option.Position, option.VariantID),
				ResourceType: "option",
				ResourceID:   option.ID,
			}
		}
		return fmt.Errorf("create option: %w", err)
	}

	return nil
}

// GetByID retrieves an option by ID
func (r *PostgresOptionRepository) GetByID(ctx context.Context, id string) (*models.Option, error) {
	query := fmt.Sprintf(`
		SELECT id, variant_id, content, target_page_id, position, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Options)

	var option models.Option
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&option.ID,
		&option.VariantID,
		&option.Content,
		&option.TargetPageID,
		&option.Position,
		&option.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("option %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get option: %w", err)
	}

	return &option, nil
}

// GetByVariantAndPosition retrieves an option by its position within a variant
func (r *PostgresOptionRepository) GetByVariantAndPosition(ctx context.Context, variantID string, position int) (*models.Option, error) {
	query := fmt.Sprintf(`
		SELECT id, variant_id, content, target_page_id, position, created_at
		FROM %s
		WHERE variant_id = $1 AND position = $2
	`, r.tables.Options)

	var option models.Option
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, variantID, position).Scan(
		&option.ID,
		&option.VariantID,
		&option.Content,
		&option.TargetPageID,
		&option.Position,
		&option.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("option %d of variant %s: %w", position, variantID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get option: %w", err)
	}

	return &option, nil
}

// ListByVariant returns all options of a variant ordered by position
func (r *PostgresOptionRepository) ListByVariant(ctx context.Context, variantID string) ([]models.Option, error) {
	query := fmt.Sprintf(`
		SELECT id, variant_id, content, target_page_id, position, created_at
		FROM %s
		WHERE variant_id = $1
		ORDER BY position
	`, r.tables.Options)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	var options []models.Option
	for rows.Next() {
		var option models.Option
		err := rows.Scan(
			&option.ID,
			&option.VariantID,
			&option.Content,
			&option.TargetPageID,
			&option.Position,
			&option.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}

	return options, nil
}

// SetTargetPage links an option to the page created for it
func (r *PostgresOptionRepository) SetTargetPage(ctx context.Context, optionID, pageID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET target_page_id = $2 WHERE id = $1
	`, r.tables.Options)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, optionID, pageID)
	if err != nil {
		return fmt.Errorf("set option target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("option %s: %w", optionID, domain.ErrNotFound)
	}

	return nil
}
