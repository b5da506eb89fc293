package media

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSourceRequired is returned when a conversion request has no source URL
	ErrSourceRequired = errors.New("source URL is required")

	// ErrUnsupportedSource is returned when the source URL is not on an accepted domain
	ErrUnsupportedSource = errors.New("source URL is not an accepted video URL")

	// ErrEmptyPayload is returned when a fetch or transcode produces no bytes
	ErrEmptyPayload = errors.New("empty media payload")

	// ErrEngineUnavailable marks transcoder failures caused by engine initialization.
	// Once returned, the engine stays unavailable until the process restarts.
	ErrEngineUnavailable = errors.New("transcoding engine unavailable")
)

// Kind classifies a pipeline failure
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindUpstreamFetch Kind = "upstream_fetch"
	KindEngineInit    Kind = "engine_init"
	KindTranscode     Kind = "transcode"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
)

// Client-facing messages for each failure
const (
	MessageSourceRequired = "YouTube URL is required"
	MessageInvalidSource  = "Invalid YouTube URL"
	MessageFetchFailed    = "Failed to extract audio from YouTube"
	MessageEngineInit     = "Failed to initialize FFmpeg"
	MessageTranscode      = "Failed to process audio"
	MessageNotFound       = "Preview not found"
	MessageInternal       = "Internal server error"
)

// Error is a pipeline failure carrying the client-facing message and the underlying cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates a new pipeline error
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error kind
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindInvalidInput, KindUpstreamFetch:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode returns the HTTP status and client message for any error.
// Errors outside the pipeline taxonomy map to 500 with a generic message.
func StatusCode(err error) (int, string) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.StatusCode(), pe.Message
	}
	return http.StatusInternalServerError, MessageInternal
}
