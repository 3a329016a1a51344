package config

const (
	// MaxSubmissionBodyBytes caps form-encoded story/page submissions.
	// 20KB is generous for a page of prose plus four options while keeping
	// the write-once submission collection cheap to store.
	MaxSubmissionBodyBytes = 20 << 10

	// MaxStoryTitleLength keeps story titles short enough for the rendered
	// <h1> and the alternatives listing.
	MaxStoryTitleLength = 255

	// MaxOptionCount bounds the outgoing choices per variant. The form UI
	// offers four; the data model allows any count, so the cap lives here
	// rather than in the schema.
	MaxOptionCount = 4

	// MaxPageNumberAttempts caps the exponential-range search for a free
	// page number. 2^64 candidate space is unreachable in practice; hitting
	// the cap means the store is unhealthy, not full.
	MaxPageNumberAttempts = 64

	// VisibilityThreshold gates which variants are rendered for readers.
	// A variant dropping below it has its published artifact removed.
	VisibilityThreshold = 0.5
)
