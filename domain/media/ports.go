package media

import "context"

// SourceFetcher retrieves the raw audio payload for a source URL.
// This is a port that can be implemented by different extraction strategies.
type SourceFetcher interface {
	// Fetch returns the raw bytes for the source URL
	Fetch(ctx context.Context, sourceURL string) ([]byte, error)
}

// Transcoder re-encodes raw audio with a fixed profile
type Transcoder interface {
	// Transcode returns the input re-encoded with the transcoder's profile
	Transcode(ctx context.Context, input []byte) ([]byte, error)

	// Profile returns the profile applied to every call
	Profile() TranscodeProfile
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
