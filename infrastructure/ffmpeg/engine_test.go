package ffmpeg

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"anime-ringtone/domain/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner imitates ffmpeg: it writes output bytes to the last argument
type fakeRunner struct {
	mu         sync.Mutex
	versionErr error
	runErr     error
	output     []byte
	versions   int
	runs       [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.runs = append(f.runs, args)
	f.mu.Unlock()
	if f.runErr != nil {
		return f.runErr
	}
	return os.WriteFile(args[len(args)-1], f.output, 0o600)
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.versions++
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.versionErr != nil {
		return nil, f.versionErr
	}
	return []byte("ffmpeg version 6.1"), nil
}

func TestEngine_Args(t *testing.T) {
	e := NewEngine()

	got := e.Args("/tmp/in", "/tmp/out.mp3")
	want := []string{
		"-y",
		"-i", "/tmp/in",
		"-vn",
		"-t", "10",
		"-ar", "44100",
		"-ac", "2",
		"-b:a", "256k",
		"-f", "mp3",
		"/tmp/out.mp3",
	}
	assert.Equal(t, want, got)
}

func TestEngine_ArgsWithStartOffset(t *testing.T) {
	profile := media.DefaultProfile()
	profile.Start = media.Timestamp{Minutes: 1, Seconds: 30}
	profile.MaxLength = media.Timestamp{Seconds: 30}
	profile.Channels = 1
	e := NewEngine(WithProfile(profile))

	got := e.Args("in", "out.mp3")
	assert.Equal(t, []string{"-y", "-ss", "00:01:30", "-i", "in"}, got[:5])
	assert.Contains(t, got, "30")
	assert.Equal(t, "out.mp3", got[len(got)-1])
}

func TestEngine_Transcode(t *testing.T) {
	runner := &fakeRunner{output: []byte("ID3-encoded")}
	scratch := t.TempDir()
	e := NewEngine(WithCommandRunner(runner), WithScratchDir(scratch))

	out, err := e.Transcode(context.Background(), []byte("RIFF-wav"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-encoded"), out)
	assert.Equal(t, 1, runner.versions)
	require.Len(t, runner.runs, 1)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory should be released after the call")
}

func TestEngine_InitializesOnce(t *testing.T) {
	runner := &fakeRunner{output: []byte("mp3")}
	e := NewEngine(WithCommandRunner(runner), WithScratchDir(t.TempDir()))

	for i := 0; i < 3; i++ {
		_, err := e.Transcode(context.Background(), []byte("wav"))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, runner.versions)
	assert.Len(t, runner.runs, 3)
}

func TestEngine_InitFailureIsSticky(t *testing.T) {
	runner := &fakeRunner{versionErr: errors.New("executable file not found in $PATH")}
	e := NewEngine(WithCommandRunner(runner), WithScratchDir(t.TempDir()))

	for i := 0; i < 3; i++ {
		_, err := e.Transcode(context.Background(), []byte("wav"))
		require.Error(t, err)
		assert.ErrorIs(t, err, media.ErrEngineUnavailable)
	}

	// Recovering the binary does not heal an engine that already failed
	runner.versionErr = nil
	_, err := e.Transcode(context.Background(), []byte("wav"))
	assert.ErrorIs(t, err, media.ErrEngineUnavailable)

	assert.Equal(t, 1, runner.versions)
	assert.Empty(t, runner.runs)
}

func TestEngine_InitIgnoresCallerCancellation(t *testing.T) {
	runner := &fakeRunner{output: []byte("mp3")}
	e := NewEngine(WithCommandRunner(runner), WithScratchDir(t.TempDir()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Transcode(ctx, []byte("wav"))
	assert.NotErrorIs(t, err, media.ErrEngineUnavailable)

	out, err := e.Transcode(context.Background(), []byte("wav"))
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), out)
}

func TestEngine_TranscodeFailure(t *testing.T) {
	runner := &fakeRunner{runErr: errors.New("exit status 1")}
	e := NewEngine(WithCommandRunner(runner), WithScratchDir(t.TempDir()))

	_, err := e.Transcode(context.Background(), []byte("wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg transcode failed")
	assert.NotErrorIs(t, err, media.ErrEngineUnavailable)
}

func TestEngine_EmptyInputAndOutput(t *testing.T) {
	runner := &fakeRunner{output: nil}
	e := NewEngine(WithCommandRunner(runner), WithScratchDir(t.TempDir()))

	_, err := e.Transcode(context.Background(), nil)
	assert.ErrorIs(t, err, media.ErrEmptyPayload)

	_, err = e.Transcode(context.Background(), []byte("wav"))
	assert.ErrorIs(t, err, media.ErrEmptyPayload)
}

func TestEngine_VerifyInstalled(t *testing.T) {
	runner := &fakeRunner{versionErr: errors.New("not found")}
	e := NewEngine(WithCommandRunner(runner), WithFFmpegPath("/opt/ffmpeg/bin/ffmpeg"))

	err := e.VerifyInstalled(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg not found or not executable")
}
