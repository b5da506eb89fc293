package preview

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no blob is stored under a handle
	ErrNotFound = errors.New("preview not found")

	// ErrStoreClosed is returned by a Store after Close
	ErrStoreClosed = errors.New("preview store closed")
)

// Store keeps transcoded clips addressable by an opaque handle.
// This is a port that can be implemented by different infrastructure adapters.
type Store interface {
	// Put stores the payload and returns the handle it can be retrieved by
	Put(ctx context.Context, data []byte, contentType string) (string, error)

	// Get returns the blob stored under handle, or ErrNotFound
	Get(ctx context.Context, handle string) (Blob, error)

	// Len returns the number of stored blobs
	Len() int

	// Close releases every stored blob; later calls fail with ErrStoreClosed
	Close() error
}

// HandleGenerator produces handles for new blobs
type HandleGenerator interface {
	NewHandle() string
}

// HandleGeneratorFunc adapts a function to HandleGenerator
type HandleGeneratorFunc func() string

// NewHandle implements HandleGenerator
func (f HandleGeneratorFunc) NewHandle() string {
	return f()
}
