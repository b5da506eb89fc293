package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anime-ringtone/domain/media"
	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/logger"
)

// OutcomeSuccess labels a conversion that produced a stored preview
const OutcomeSuccess = "success"

// Recorder receives conversion telemetry
type Recorder interface {
	ConversionFinished(outcome string, elapsed time.Duration)
	PreviewStored(size int)
}

type nopRecorder struct{}

func (nopRecorder) ConversionFinished(string, time.Duration) {}
func (nopRecorder) PreviewStored(int)                        {}

// Service runs the validate, fetch, transcode and store pipeline
type Service struct {
	fetcher     media.SourceFetcher
	transcoder  media.Transcoder
	store       preview.Store
	title       string
	previewPath string
	log         logger.Logger
	recorder    Recorder
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRecorder sets the telemetry recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService creates a new conversion service.
// previewPath is the URL prefix the returned handle is appended to.
func NewService(
	fetcher media.SourceFetcher,
	transcoder media.Transcoder,
	store preview.Store,
	title string,
	previewPath string,
	opts ...Option,
) *Service {
	s := &Service{
		fetcher:     fetcher,
		transcoder:  transcoder,
		store:       store,
		title:       title,
		previewPath: previewPath,
		log:         logger.NewNop(),
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input contains the parameters of a conversion request
type Input struct {
	SourceURL string
}

// Result contains the outcome of a successful conversion
type Result struct {
	Handle     string
	PreviewURL string
	Title      string
}

// Convert turns the source URL into a stored clip.
// Every failure is a *media.Error; nothing is stored unless all stages succeed.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	started := time.Now()

	result, err := s.convert(ctx, input)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = string(media.KindInternal)
		var pe *media.Error
		if errors.As(err, &pe) {
			outcome = string(pe.Kind)
		}
	}
	s.recorder.ConversionFinished(outcome, time.Since(started))

	return result, err
}

func (s *Service) convert(ctx context.Context, input Input) (*Result, error) {
	req, err := media.NewConversionRequest(input.SourceURL)
	if err != nil {
		s.log.Debug("Rejected conversion request", logger.String("source_url", input.SourceURL), logger.Error(err))
		return nil, err
	}

	log := s.log.With(logger.String("source_url", req.SourceURL))

	payload, err := s.fetcher.Fetch(ctx, req.SourceURL)
	if err != nil {
		log.Warn("Source fetch failed", logger.Error(err))
		return nil, media.NewError(media.KindUpstreamFetch, media.MessageFetchFailed, fmt.Errorf("fetch source: %w", err))
	}
	log.Debug("Fetched source", logger.Int("bytes", len(payload)))

	audio, err := s.transcoder.Transcode(ctx, payload)
	if err != nil {
		if errors.Is(err, media.ErrEngineUnavailable) {
			log.Error("Transcoder unavailable", logger.Error(err))
			return nil, media.NewError(media.KindEngineInit, media.MessageEngineInit, err)
		}
		log.Error("Transcode failed", logger.Error(err))
		return nil, media.NewError(media.KindTranscode, media.MessageTranscode, fmt.Errorf("transcode: %w", err))
	}

	contentType := s.transcoder.Profile().ContentType()
	handle, err := s.store.Put(ctx, audio, contentType)
	if err != nil {
		log.Error("Failed to store preview", logger.Error(err))
		return nil, media.NewError(media.KindInternal, media.MessageInternal, fmt.Errorf("store preview: %w", err))
	}
	s.recorder.PreviewStored(len(audio))

	log.Info("Conversion complete",
		logger.String("handle", handle),
		logger.Int("bytes", len(audio)),
	)

	return &Result{
		Handle:     handle,
		PreviewURL: s.PreviewURL(handle),
		Title:      s.title,
	}, nil
}

// PreviewURL returns the retrieval URL for a handle
func (s *Service) PreviewURL(handle string) string {
	return strings.TrimSuffix(s.previewPath, "/") + "/" + handle
}
