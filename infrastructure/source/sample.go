package source

import (
	"context"
	"net/http"

	"anime-ringtone/domain/media"
)

// SampleFetcher downloads one fixed remote sample whatever the source URL is.
// It is a placeholder for real extraction, useful for demos and local testing.
type SampleFetcher struct {
	client    *http.Client
	sampleURL string
	maxBytes  int64
}

// NewSampleFetcher creates a fetcher for the sample at sampleURL
func NewSampleFetcher(client *http.Client, sampleURL string, maxBytes int64) *SampleFetcher {
	return &SampleFetcher{client: client, sampleURL: sampleURL, maxBytes: maxBytes}
}

// Fetch implements media.SourceFetcher
func (f *SampleFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	return download(ctx, f.client, f.sampleURL, f.maxBytes)
}

var _ media.SourceFetcher = (*SampleFetcher)(nil)
