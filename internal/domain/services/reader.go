package services

import "context"

// ReaderService resolves a page number to one concrete variant artifact,
// weighted by visibility. Backs the /r/{page} entry point that lets readers
// share stable page links while still landing on a sampled variant.
type ReaderService interface {
	// ResolveVariant returns the artifact path of a weighted-random visible
	// variant, e.g. "/p/12b.html". Returns domain.ErrNotFound when the page
	// does not exist or has no visible variant.
	ResolveVariant(ctx context.Context, pageNumber int) (string, error)
}
