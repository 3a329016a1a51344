package postgres

import (
	"context"
	"fmt"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const variantColumns = `id, page_id, name, content, author_id, author_name,
	visibility, moderation_rating_count, moderator_reputation_sum, rand, created_at`

// PostgresVariantRepository implements the VariantRepository interface
type PostgresVariantRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVariantRepository creates a new variant repository
func NewVariantRepository(config *RepositoryConfig) repositories.VariantRepository {
	return &PostgresVariantRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new variant
func (r *PostgresVariantRepository) Create(ctx context.Context, variant *models.Variant) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, page_id, name, content, author_id, author_name,
			visibility, moderation_rating_count, moderator_reputation_sum, rand, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Variants)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		variant.ID,
		variant.PageID,
		variant.Name,
		variant.Content,
		variant.AuthorID,
		variant.AuthorName,
		variant.Visibility,
		variant.ModerationRatingCount,
		variant.ModeratorReputationSum,
		variant.Rand,
		variant.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("variant %q already exists on page %s", variant.Name, variant.PageID),
				ResourceType: "variant",
				ResourceID:   variant.ID,
			}
		}
		return fmt.Errorf("create variant: %w", err)
	}

	return nil
}

// GetByID retrieves a variant by ID
func (r *PostgresVariantRepository) GetByID(ctx context.Context, id string) (*models.Variant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, variantColumns, r.tables.Variants)

	return r.queryOne(ctx, query, id)
}

// GetByIDForUpdate locks the variant row within the current transaction.
// Rating aggregation serializes on this lock so two concurrent ratings
// never fold into the same stale visibility.
func (r *PostgresVariantRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Variant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 FOR UPDATE
	`, variantColumns, r.tables.Variants)

	return r.queryOne(ctx, query, id)
}

// GetByPageAndName retrieves a variant by its letter name within a page
func (r *PostgresVariantRepository) GetByPageAndName(ctx context.Context, pageID, name string) (*models.Variant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE page_id = $1 AND name = $2
	`, variantColumns, r.tables.Variants)

	return r.queryOne(ctx, query, pageID, name)
}

// ListByPage returns all variants of a page ordered by name
func (r *PostgresVariantRepository) ListByPage(ctx context.Context, pageID string) ([]models.Variant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE page_id = $1 ORDER BY name
	`, variantColumns, r.tables.Variants)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var variants []models.Variant
	for rows.Next() {
		var v models.Variant
		if err := scanVariant(rows, &v); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	return variants, nil
}

// UpdateAggregates writes the folded visibility score and counters
func (r *PostgresVariantRepository) UpdateAggregates(ctx context.Context, id string, visibility float64, ratingCount int, reputationSum float64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET visibility = $2, moderation_rating_count = $3, moderator_reputation_sum = $4
		WHERE id = $1
	`, r.tables.Variants)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, visibility, ratingCount, reputationSum)
	if err != nil {
		return fmt.Errorf("update variant aggregates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("variant %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// FindCandidate runs one step of the moderation sampling plan: a one-sided
// range scan on the random cursor around the pivot, optionally restricted to
// zero-rated variants. Approximates uniform sampling over an append-only
// collection without a full scan.
func (r *PostgresVariantRepository) FindCandidate(ctx context.Context, zeroRatedOnly, geq bool, pivot float64) (*models.Variant, error) {
	comparator := "<"
	order := "DESC"
	if geq {
		comparator = ">="
		order = "ASC"
	}
	ratedFilter := ""
	if zeroRatedOnly {
		ratedFilter = "AND moderation_rating_count = 0"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE rand %s $1 %s
		ORDER BY rand %s
		LIMIT 1
	`, variantColumns, r.tables.Variants, comparator, ratedFilter, order)

	return r.queryOne(ctx, query, pivot)
}

func (r *PostgresVariantRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.Variant, error) {
	var v models.Variant
	executor := GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, args...)
	if err := scanVariant(row, &v); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("variant: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}

	return &v, nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVariant(row rowScanner, v *models.Variant) error {
	return row.Scan(
		&v.ID,
		&v.PageID,
		&v.Name,
		&v.Content,
		&v.AuthorID,
		&v.AuthorName,
		&v.Visibility,
		&v.ModerationRatingCount,
		&v.ModeratorReputationSum,
		&v.Rand,
		&v.CreatedAt,
	)
}
