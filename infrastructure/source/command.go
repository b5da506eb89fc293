package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"anime-ringtone/domain/media"
	"anime-ringtone/infrastructure/process"
)

// URLPlaceholder is replaced by the source URL in command arguments
const URLPlaceholder = "{url}"

// CommandFetcher runs an external extractor (yt-dlp, for example) that writes audio to stdout
type CommandFetcher struct {
	runner   process.CommandRunner
	command  string
	args     []string
	maxBytes int64
}

// NewCommandFetcher creates a fetcher that runs command with args.
// When no argument contains {url}, the source URL is appended as the last argument.
func NewCommandFetcher(runner process.CommandRunner, command string, args []string, maxBytes int64) *CommandFetcher {
	return &CommandFetcher{runner: runner, command: command, args: args, maxBytes: maxBytes}
}

// Fetch implements media.SourceFetcher
func (f *CommandFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	out, err := f.runner.Output(ctx, f.command, f.Args(sourceURL)...)
	if err != nil {
		return nil, fmt.Errorf("%s extraction failed: %w", f.command, err)
	}
	return readLimited(bytes.NewReader(out), f.maxBytes)
}

// Args returns the command arguments for one source URL
func (f *CommandFetcher) Args(sourceURL string) []string {
	args := make([]string, 0, len(f.args)+1)
	substituted := false
	for _, a := range f.args {
		if strings.Contains(a, URLPlaceholder) {
			a = strings.ReplaceAll(a, URLPlaceholder, sourceURL)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, sourceURL)
	}
	return args
}

var _ media.SourceFetcher = (*CommandFetcher)(nil)
