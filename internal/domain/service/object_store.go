// Package service defines interfaces for external collaborators consumed by
// the use case layer.
package service

import (
	"context"
	"io"
	"time"
)

// ObjectStore wraps the object-storage backend holding asset files.
type ObjectStore interface {
	// SignURL mints a time-limited read URL for a private object.
	SignURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Upload writes an object under the given key.
	Upload(ctx context.Context, key, contentType string, body io.Reader) error

	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}
