package memstore

import (
	"fmt"

	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/logger"
)

// Open builds the store for a handle scheme and capacity. maxEntries of zero means unbounded.
func Open(scheme string, maxEntries int, log logger.Logger) (preview.Store, error) {
	handles, err := NewHandleGenerator(scheme)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithHandleGenerator(handles), WithLogger(log)}
	switch {
	case maxEntries < 0:
		return nil, fmt.Errorf("max entries must not be negative, got %d", maxEntries)
	case maxEntries == 0:
		return New(opts...), nil
	default:
		return NewLRU(maxEntries, opts...)
	}
}
