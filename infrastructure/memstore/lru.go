package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/logger"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUStore implements preview.Store with a fixed capacity.
// The least recently stored or read preview is evicted first.
type LRUStore struct {
	mu      sync.RWMutex
	cache   *lru.Cache[string, preview.Blob]
	closed  bool
	handles preview.HandleGenerator
	now     func() time.Time
	log     logger.Logger
}

// NewLRU creates a store holding at most maxEntries previews
func NewLRU(maxEntries int, opts ...Option) (*LRUStore, error) {
	o := buildOptions(opts)
	s := &LRUStore{
		handles: o.handles,
		now:     o.now,
		log:     o.log,
	}

	cache, err := lru.NewWithEvict(maxEntries, func(handle string, blob preview.Blob) {
		s.log.Debug("Evicted preview",
			logger.String("handle", handle),
			logger.Int("bytes", blob.Size()),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("create preview cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Put implements preview.Store
func (s *LRUStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	handle := s.handles.NewHandle()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", preview.ErrStoreClosed
	}
	if s.cache.Contains(handle) {
		s.log.Warn("Preview handle collision; earlier preview replaced", logger.String("handle", handle))
	}

	s.cache.Add(handle, preview.Blob{
		Handle:      handle,
		Data:        data,
		ContentType: contentType,
		StoredAt:    s.now(),
	})
	return handle, nil
}

// Get implements preview.Store
func (s *LRUStore) Get(ctx context.Context, handle string) (preview.Blob, error) {
	if err := ctx.Err(); err != nil {
		return preview.Blob{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return preview.Blob{}, preview.ErrStoreClosed
	}
	blob, ok := s.cache.Get(handle)
	if !ok {
		return preview.Blob{}, preview.ErrNotFound
	}
	return blob, nil
}

// Len implements preview.Store
func (s *LRUStore) Len() int {
	return s.cache.Len()
}

// Close implements preview.Store
func (s *LRUStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Releasing preview store", logger.Int("previews", s.cache.Len()))
	s.closed = true
	s.cache.Purge()
	return nil
}

var _ preview.Store = (*LRUStore)(nil)
