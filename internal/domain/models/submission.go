package models

import (
	"time"
)

// SubmissionKind distinguishes new-story submissions from page continuations.
type SubmissionKind string

const (
	SubmissionKindStory SubmissionKind = "story"
	SubmissionKindPage  SubmissionKind = "page"
)

// Submission is a raw form submission. Written once by the client, mutated
// exactly once by the graph mutator (Processed flips false -> true), never
// deleted. Processed acts as the idempotency fence for redelivered events:
// reprocessing an already-processed submission is a no-op.
type Submission struct {
	ID             string         `json:"id" db:"id"`
	Kind           SubmissionKind `json:"kind" db:"kind"`
	Title          string         `json:"title" db:"title"` // story submissions only
	Content        string         `json:"content" db:"content"`
	AuthorName     string         `json:"author" db:"author_name"`
	AuthorID       *string        `json:"author_id" db:"author_id"`
	IncomingOption string         `json:"incoming_option" db:"incoming_option"` // page submissions only
	PageNumber     int            `json:"page_number" db:"page_number"`         // competing-variant submissions only
	Options        []string       `json:"options" db:"options"`
	Processed      bool           `json:"processed" db:"processed"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// StoryGraph is the set of documents created for one accepted submission.
type StoryGraph struct {
	Story   *Story   `json:"story,omitempty"`
	Page    *Page    `json:"page"`
	Variant *Variant `json:"variant"`
	Options []Option `json:"options"`
}
