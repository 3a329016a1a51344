package repositories

import (
	"context"

	"dendrite/internal/domain/models"
)

// StoryRepository persists story root documents.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id string) (*models.Story, error)
}

// PageRepository persists pages. Number lookups span the whole corpus
// (the "collection group" of all pages, regardless of owning story).
type PageRepository interface {
	// Create inserts the page. A duplicate page number maps to
	// domain.ErrConflict; the unique index is the authoritative fence
	// against two allocators racing on the same candidate.
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, id string) (*models.Page, error)
	GetByNumber(ctx context.Context, number int) (*models.Page, error)
	NumberExists(ctx context.Context, number int) (bool, error)
}

// VariantRepository persists variants and their cached moderation aggregates.
type VariantRepository interface {
	Create(ctx context.Context, variant *models.Variant) error
	GetByID(ctx context.Context, id string) (*models.Variant, error)
	GetByPageAndName(ctx context.Context, pageID, name string) (*models.Variant, error)
	// ListByPage returns all variants of a page ordered by name.
	ListByPage(ctx context.Context, pageID string) ([]models.Variant, error)
	// GetByIDForUpdate locks the variant row for the current transaction.
	// Rating aggregation serializes through this lock; without it two
	// concurrent ratings could read the same old visibility and lose one
	// update.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Variant, error)
	// UpdateAggregates writes the folded visibility score and counters.
	UpdateAggregates(ctx context.Context, id string, visibility float64, ratingCount int, reputationSum float64) error
	// FindCandidate runs one step of the moderation sampling plan: a range
	// scan on the random cursor field, optionally restricted to zero-rated
	// variants. geq selects rand >= pivot, otherwise rand < pivot.
	// Returns domain.ErrNotFound when the step yields nothing.
	FindCandidate(ctx context.Context, zeroRatedOnly, geq bool, pivot float64) (*models.Variant, error)
}

// OptionRepository persists the outgoing choices of a variant.
type OptionRepository interface {
	Create(ctx context.Context, option *models.Option) error
	GetByID(ctx context.Context, id string) (*models.Option, error)
	GetByVariantAndPosition(ctx context.Context, variantID string, position int) (*models.Option, error)
	ListByVariant(ctx context.Context, variantID string) ([]models.Option, error)
	// SetTargetPage links an option to the page created for it.
	SetTargetPage(ctx context.Context, optionID, pageID string) error
}
