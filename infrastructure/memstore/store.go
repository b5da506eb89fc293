// Package memstore keeps transcoded previews in process memory.
package memstore

import (
	"context"
	"sync"
	"time"

	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/logger"
)

// Store implements preview.Store with an unbounded map.
// Nothing is evicted; Close is the only reclamation.
type Store struct {
	mu      sync.RWMutex
	blobs   map[string]preview.Blob
	closed  bool
	handles preview.HandleGenerator
	now     func() time.Time
	log     logger.Logger
}

// Option is a functional option shared by Store and LRUStore
type Option func(*options)

type options struct {
	handles preview.HandleGenerator
	now     func() time.Time
	log     logger.Logger
}

// WithHandleGenerator sets the handle generator (default: UUIDGenerator)
func WithHandleGenerator(g preview.HandleGenerator) Option {
	return func(o *options) {
		o.handles = g
	}
}

// WithClock sets the clock used for StoredAt (for testing)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the store logger
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{
		handles: UUIDGenerator{},
		now:     time.Now,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates an empty unbounded store
func New(opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		blobs:   make(map[string]preview.Blob),
		handles: o.handles,
		now:     o.now,
		log:     o.log,
	}
}

// Put implements preview.Store. A handle collision replaces the earlier blob and is logged.
func (s *Store) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	handle := s.handles.NewHandle()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", preview.ErrStoreClosed
	}
	if _, exists := s.blobs[handle]; exists {
		s.log.Warn("Preview handle collision; earlier preview replaced", logger.String("handle", handle))
	}

	s.blobs[handle] = preview.Blob{
		Handle:      handle,
		Data:        data,
		ContentType: contentType,
		StoredAt:    s.now(),
	}
	return handle, nil
}

// Get implements preview.Store
func (s *Store) Get(ctx context.Context, handle string) (preview.Blob, error) {
	if err := ctx.Err(); err != nil {
		return preview.Blob{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return preview.Blob{}, preview.ErrStoreClosed
	}
	blob, ok := s.blobs[handle]
	if !ok {
		return preview.Blob{}, preview.ErrNotFound
	}
	return blob, nil
}

// Len implements preview.Store
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Close implements preview.Store
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Releasing preview store", logger.Int("previews", len(s.blobs)))
	s.blobs = nil
	s.closed = true
	return nil
}

var _ preview.Store = (*Store)(nil)
