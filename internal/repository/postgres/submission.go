package postgres

import (
	"context"
	"fmt"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubmissionRepository implements the SubmissionRepository interface
type PostgresSubmissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(config *RepositoryConfig) repositories.SubmissionRepository {
	return &PostgresSubmissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new submission record
func (r *PostgresSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, kind, title, content, author_name, author_id,
			incoming_option, page_number, options, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Submissions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		submission.ID,
		submission.Kind,
		submission.Title,
		submission.Content,
		submission.AuthorName,
		submission.AuthorID,
		submission.IncomingOption,
		submission.PageNumber,
		submission.Options,
		submission.Processed,
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by ID
func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf(`
		SELECT id, kind, title, content, author_name, author_id,
			incoming_option, page_number, options, processed, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Submissions)

	var submission models.Submission
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&submission.ID,
		&submission.Kind,
		&submission.Title,
		&submission.Content,
		&submission.AuthorName,
		&submission.AuthorID,
		&submission.IncomingOption,
		&submission.PageNumber,
		&submission.Options,
		&submission.Processed,
		&submission.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	return &submission, nil
}

// MarkProcessed flips processed false -> true. The WHERE clause makes the
// flip conditional, so the second of two racing deliveries sees zero rows
// affected and reports false.
func (r *PostgresSubmissionRepository) MarkProcessed(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET processed = TRUE WHERE id = $1 AND processed = FALSE
	`, r.tables.Submissions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark submission processed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
