// Package blob abstracts where file contents live. Metadata stays in the
// database; the bytes themselves go through a Store. Implementations cover
// the local filesystem, S3-compatible object storage, and an in-memory map
// for tests.
package blob

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no blob exists under the requested key.
	ErrNotFound = errors.New("blob not found")
	// ErrDenied means the backend refused access to the key.
	ErrDenied = errors.New("blob access denied")
)

// Store reads and writes opaque byte blobs addressed by key.
type Store interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
}
