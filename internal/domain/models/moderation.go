package models

import (
	"time"
)

// Moderator tracks the open moderation job of one moderator. A NULL
// AssignedVariantID means no open job; a moderator never holds more than one.
type Moderator struct {
	ID                string  `json:"id" db:"id"`
	AssignedVariantID *string `json:"assigned_variant_id" db:"assigned_variant_id"`
}

// ModerationRating is one moderator's verdict on one variant. Append-only;
// ratings are the source of truth and the variant counters are a cached
// aggregate folded in incrementally.
type ModerationRating struct {
	ID          string    `json:"id" db:"id"`
	ModeratorID string    `json:"moderator_id" db:"moderator_id"`
	VariantID   string    `json:"variant_id" db:"variant_id"`
	IsApproved  bool      `json:"is_approved" db:"is_approved"`
	RatedAt     time.Time `json:"rated_at" db:"rated_at"`
}

// ModerationReport is a reader-submitted flag on a variant slug. Append-only,
// no further processing beyond storage.
type ModerationReport struct {
	ID          string    `json:"id" db:"id"`
	VariantSlug string    `json:"variant_slug" db:"variant_slug"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ModerationJob is the moderator-facing view of an assigned variant.
type ModerationJob struct {
	VariantID  string `json:"variant_id"`
	PageNumber int    `json:"page_number"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	AuthorName string `json:"author,omitempty"`
}
