package postgres

import (
	"context"
	"fmt"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStoryRepository implements the StoryRepository interface
type PostgresStoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(config *RepositoryConfig) repositories.StoryRepository {
	return &PostgresStoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new story
func (r *PostgresStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, root_page_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Stories)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		story.ID,
		story.Title,
		story.RootPageID,
		story.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("story %s already exists", story.ID),
				ResourceType: "story",
				ResourceID:   story.ID,
			}
		}
		return fmt.Errorf("create story: %w", err)
	}

	return nil
}

// GetByID retrieves a story by ID
func (r *PostgresStoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := fmt.Sprintf(`
		SELECT id, title, root_page_id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Stories)

	var story models.Story
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&story.ID,
		&story.Title,
		&story.RootPageID,
		&story.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}

	return &story, nil
}
