package repositories

import (
	"context"

	"dendrite/internal/domain/models"
)

// SubmissionRepository persists raw form submissions. Submissions are
// write-once by clients and never deleted; the processed flag is the only
// mutable field.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	// MarkProcessed flips processed false -> true. Returns false when the
	// submission was already processed, which callers treat as "another
	// delivery of this event already ran".
	MarkProcessed(ctx context.Context, id string) (bool, error)
}
