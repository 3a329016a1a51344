package models

import (
	"fmt"
	"time"
)

// Story is the root of a branching narrative. Created once per accepted
// story submission; immutable afterwards apart from derived stat counters.
type Story struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	RootPageID string    `json:"root_page_id" db:"root_page_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Page is one node of the story graph. Number is the human-facing address
// and is unique across the whole corpus, not just within one story.
type Page struct {
	ID               string    `json:"id" db:"id"`
	StoryID          string    `json:"story_id" db:"story_id"`
	Number           int       `json:"number" db:"number"`
	IncomingOptionID *string   `json:"incoming_option_id" db:"incoming_option_id"` // NULL for root pages
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Variant is one of several competing textual renditions of a page.
// Visibility is a score in [0,1]; variants at or above the publishing
// threshold are rendered for readers.
type Variant struct {
	ID                    string    `json:"id" db:"id"`
	PageID                string    `json:"page_id" db:"page_id"`
	Name                  string    `json:"name" db:"name"` // base-26 letter sequence: a..z, aa..
	Content               string    `json:"content" db:"content"`
	AuthorID              *string   `json:"author_id" db:"author_id"`
	AuthorName            string    `json:"author_name" db:"author_name"`
	Visibility            float64   `json:"visibility" db:"visibility"`
	ModerationRatingCount int       `json:"moderation_rating_count" db:"moderation_rating_count"`
	ModeratorReputationSum float64  `json:"moderator_reputation_sum" db:"moderator_reputation_sum"`
	Rand                  float64   `json:"-" db:"rand"` // random cursor for moderation sampling
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// Slug returns the reader-facing identifier of the variant, e.g. "12b".
func (v *Variant) Slug(pageNumber int) string {
	return fmt.Sprintf("%d%s", pageNumber, v.Name)
}

// Option is one outgoing choice of a variant. TargetPageID stays NULL until
// a continuation submission resolves it.
type Option struct {
	ID           string    `json:"id" db:"id"`
	VariantID    string    `json:"variant_id" db:"variant_id"`
	Content      string    `json:"content" db:"content"`
	TargetPageID *string   `json:"target_page_id" db:"target_page_id"`
	Position     int       `json:"position" db:"position"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
