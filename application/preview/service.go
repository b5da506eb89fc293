package preview

import (
	"context"
	"errors"
	"fmt"

	"anime-ringtone/domain/media"
	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/logger"
)

// Recorder receives preview lookup telemetry
type Recorder interface {
	PreviewRead(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) PreviewRead(bool) {}

// Service resolves preview handles to stored clips
type Service struct {
	store    preview.Store
	log      logger.Logger
	recorder Recorder
}

// NewService creates a new preview service
func NewService(store preview.Store, log logger.Logger, recorder Recorder) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{store: store, log: log, recorder: recorder}
}

// Get returns the clip stored under handle.
// An unknown handle yields a *media.Error of kind KindNotFound.
func (s *Service) Get(ctx context.Context, handle string) (preview.Blob, error) {
	blob, err := s.store.Get(ctx, handle)
	if err != nil {
		if errors.Is(err, preview.ErrNotFound) {
			s.recorder.PreviewRead(false)
			s.log.Debug("Preview not found", logger.String("handle", handle))
			return preview.Blob{}, media.NewError(media.KindNotFound, media.MessageNotFound, err)
		}
		s.log.Error("Preview lookup failed", logger.String("handle", handle), logger.Error(err))
		return preview.Blob{}, media.NewError(media.KindInternal, media.MessageInternal, fmt.Errorf("get preview: %w", err))
	}

	s.recorder.PreviewRead(true)
	return blob, nil
}
