package services

import (
	"context"

	"dendrite/internal/domain/models"
)

// ModerationService assigns variants to moderators and folds their verdicts
// into the cached visibility aggregates.
type ModerationService interface {
	// NextJob returns the moderator's open job, assigning a fresh one when
	// none is open. Returns domain.ErrNotFound when nothing awaits review.
	NextJob(ctx context.Context, moderatorID string) (*models.ModerationJob, error)

	// SubmitRating records the verdict on the moderator's assigned variant
	// and clears the assignment. Returns domain.ErrNotFound when the
	// moderator has no open job.
	SubmitRating(ctx context.Context, moderatorID string, isApproved bool) error

	// Report records an anonymous reader report against a variant slug.
	Report(ctx context.Context, variantSlug string) error
}
