package services

import "context"

// Publisher reconciles a page's published artifacts with its current
// variant set: visible variants are rendered and written, invisible ones
// have their artifacts removed, and the alternatives fragment is rebuilt.
type Publisher interface {
	PublishPage(ctx context.Context, pageID string) error
}
