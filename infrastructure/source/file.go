package source

import (
	"context"
	"fmt"
	"os"

	"anime-ringtone/domain/media"
)

// FileFetcher serves a local sample file whatever the source URL is
type FileFetcher struct {
	path        string
	fileChecker media.FileChecker
	maxBytes    int64
}

// NewFileFetcher creates a fetcher for the file at path
func NewFileFetcher(path string, fileChecker media.FileChecker, maxBytes int64) *FileFetcher {
	return &FileFetcher{path: path, fileChecker: fileChecker, maxBytes: maxBytes}
}

// Fetch implements media.SourceFetcher
func (f *FileFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !f.fileChecker.Exists(f.path) {
		return nil, fmt.Errorf("sample file does not exist: %s", f.path)
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open sample file: %w", err)
	}
	defer file.Close()

	return readLimited(file, f.maxBytes)
}

var _ media.SourceFetcher = (*FileFetcher)(nil)
