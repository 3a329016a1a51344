package services

import (
	"context"

	"dendrite/internal/domain/models"
)

// GraphService accepts raw submissions and folds them into the story graph.
type GraphService interface {
	// SubmitStory validates and records a new-story submission, then
	// processes it. The submission row is the durable record; processing
	// failures leave it unprocessed for a later retry.
	SubmitStory(ctx context.Context, req *SubmitStoryRequest) (*models.Submission, error)

	// SubmitPage validates and records a continuation submission. The
	// request names either an incoming option ("12-b-3") or a bare page
	// number for a competing variant.
	SubmitPage(ctx context.Context, req *SubmitPageRequest) (*models.Submission, error)

	// ProcessSubmission folds one submission into the graph. Idempotent:
	// an already-processed submission is a no-op. Malformed or dangling
	// references are terminal; the submission is marked processed with no
	// graph effect.
	ProcessSubmission(ctx context.Context, submissionID string) error
}

// SubmitStoryRequest is a new-story form submission.
type SubmitStoryRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	AuthorName string   `json:"author"`
	AuthorID   *string  `json:"author_id,omitempty"`
	Options    []string `json:"options"`
}

// SubmitPageRequest is a continuation form submission. Exactly one of
// IncomingOption and PageNumber is set.
type SubmitPageRequest struct {
	IncomingOption string   `json:"incoming_option,omitempty"`
	PageNumber     int      `json:"page_number,omitempty"`
	Content        string   `json:"content"`
	AuthorName     string   `json:"author"`
	AuthorID       *string  `json:"author_id,omitempty"`
	Options        []string `json:"options"`
}
