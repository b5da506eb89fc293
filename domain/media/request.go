package media

import "regexp"

// sourceURLRegex matches the accepted video hosts, with or without scheme and www prefix
var sourceURLRegex = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

// ConversionRequest represents a request to turn a video URL into an audio clip
type ConversionRequest struct {
	SourceURL string
}

// NewConversionRequest creates a new ConversionRequest with validation.
// The URL is matched as given; surrounding whitespace makes it invalid.
// The returned error is an *Error of kind KindInvalidInput.
func NewConversionRequest(sourceURL string) (*ConversionRequest, error) {
	if sourceURL == "" {
		return nil, NewError(KindInvalidInput, MessageSourceRequired, ErrSourceRequired)
	}

	if !IsAcceptedSource(sourceURL) {
		return nil, NewError(KindInvalidInput, MessageInvalidSource, ErrUnsupportedSource)
	}

	return &ConversionRequest{SourceURL: sourceURL}, nil
}

// IsAcceptedSource reports whether the URL points at an accepted video host
func IsAcceptedSource(sourceURL string) bool {
	return sourceURLRegex.MatchString(sourceURL)
}
