package postgres

import (
	"context"
	"fmt"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts the page. The unique index on number is the authoritative
// guard against two allocators racing on the same candidate: the loser gets
// a ConflictError and retries with a fresh number.
func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, story_id, number, incoming_option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		page.ID,
		page.StoryID,
		page.Number,
		page.IncomingOptionID,
		page.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("page number %d already taken", page.Number),
				ResourceType: "page",
				ResourceID:   page.ID,
			}
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

// GetByID retrieves a page by ID
func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT id, story_id, number, incoming_option_id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Pages)

	return r.scanPage(ctx, query, id)
}

// GetByNumber retrieves a page by its corpus-wide number
func (r *PostgresPageRepository) GetByNumber(ctx context.Context, number int) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT id, story_id, number, incoming_option_id, created_at
		FROM %s
		WHERE number = $1
	`, r.tables.Pages)

	return r.scanPage(ctx, query, number)
}

// NumberExists reports whether any page already holds the given number.
// The allocator probes with this before attempting a create.
func (r *PostgresPageRepository) NumberExists(ctx context.Context, number int) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE number = $1)
	`, r.tables.Pages)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("check page number: %w", err)
	}

	return exists, nil
}

func (r *PostgresPageRepository) scanPage(ctx context.Context, query string, arg interface{}) (*models.Page, error) {
	var page models.Page
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&page.ID,
		&page.StoryID,
		&page.Number,
		&page.IncomingOptionID,
		&page.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %v: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}

	return &page, nil
}
