package ports

import (
	"context"
	"io"
)

// BlobStore keeps document bytes. Keys are opaque to callers outside the document commands.
type BlobStore interface {
	// Put stores r under key and returns the number of bytes written. At most limit bytes are
	// accepted; a larger body fails with ValueIsOutOfRangeError and nothing is kept.
	Put(ctx context.Context, key string, r io.Reader, limit int64) (int64, error)

	// Open returns a reader for the blob. Returns ObjectNotFoundError when absent.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
}
