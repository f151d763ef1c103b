package driven

import (
	"context"
	"time"
)

// ObjectStore holds the original uploaded files.
type ObjectStore interface {
	// Upload stores data under key.
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// SignedURL returns a URL granting read access to key for ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
