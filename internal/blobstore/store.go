package blobstore

import (
	"context"
	"time"
)

// Store is the blob storage abstraction the pipeline writes chunk audio
// and stitched artifacts through. Keys are opaque slash-separated
// strings. Upload has upsert semantics: writing an existing key
// overwrites it, which is what makes re-stitching to a stable artifact
// key idempotent.
type Store interface {
	// Upload writes data under key, overwriting any existing object
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// Download reads the full object stored under key
	Download(ctx context.Context, key string) ([]byte, error)

	// SignedURL mints a time-limited access URL for key
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes the object stored under key; missing keys are not an error
	Delete(ctx context.Context, key string) error
}
