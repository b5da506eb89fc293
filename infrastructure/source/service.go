package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"anime-ringtone/domain/media"
)

// ServiceFetcher delegates extraction to a dedicated service.
// The service receives GET <endpoint>?url=<source URL> and answers with the audio bytes.
type ServiceFetcher struct {
	client   *http.Client
	endpoint *url.URL
	maxBytes int64
}

// NewServiceFetcher creates a fetcher for the extraction service at endpoint
func NewServiceFetcher(client *http.Client, endpoint string, maxBytes int64) (*ServiceFetcher, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid extraction service URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid extraction service URL %q: scheme must be http or https", endpoint)
	}
	return &ServiceFetcher{client: client, endpoint: u, maxBytes: maxBytes}, nil
}

// Fetch implements media.SourceFetcher
func (f *ServiceFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	u := *f.endpoint
	q := u.Query()
	q.Set("url", sourceURL)
	u.RawQuery = q.Encode()

	return download(ctx, f.client, u.String(), f.maxBytes)
}

var _ media.SourceFetcher = (*ServiceFetcher)(nil)
