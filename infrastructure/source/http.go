// Package source implements the strategies that turn a video URL into a raw audio payload.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"anime-ringtone/domain/media"
)

// NewHTTPClient creates the client used by the HTTP strategies. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// download GETs url and returns at most maxBytes of its body
func download(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	return readLimited(resp.Body, maxBytes)
}

// readLimited reads r fully, failing if it holds more than maxBytes or nothing at all
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", maxBytes)
	}
	if len(data) == 0 {
		return nil, media.ErrEmptyPayload
	}
	return data, nil
}
