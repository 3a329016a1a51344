package repositories

import (
	"context"

	"dendrite/internal/domain/models"
)

// ModerationRepository persists moderator assignments, ratings and reports.
type ModerationRepository interface {
	// GetModerator returns the moderator record, creating an empty one on
	// first contact. The assignment field is NULL when no job is open.
	GetModerator(ctx context.Context, id string) (*models.Moderator, error)
	// SetAssignment writes (or clears, with nil) the moderator's open job.
	SetAssignment(ctx context.Context, moderatorID string, variantID *string) error
	// CreateRating appends a rating row. Ratings are never updated or deleted.
	CreateRating(ctx context.Context, rating *models.ModerationRating) error
	// CreateReport appends a reader report row.
	CreateReport(ctx context.Context, report *models.ModerationReport) error
}
