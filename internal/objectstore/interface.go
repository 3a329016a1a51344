// Package objectstore holds the public artifact store the publisher writes
// rendered HTML into, keyed by deterministic paths derived from page number
// and variant name.
package objectstore

import "context"

// Store is the object store boundary. Writes overwrite; deletes of missing
// objects are a no-op so redelivered hide events stay idempotent.
type Store interface {
	// Write persists an object with the given content type.
	Write(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// Invalidator is the optional CDN side channel. Failures are logged by the
// caller and never affect correctness.
type Invalidator interface {
	InvalidatePaths(ctx context.Context, paths []string) error
}
