package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"anime-ringtone/domain/media"
	"anime-ringtone/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFetcher_IgnoresSourceURL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/sample.wav", r.URL.Path)
		_, _ = w.Write([]byte("RIFF-sample"))
	}))
	defer srv.Close()

	f := NewSampleFetcher(srv.Client(), srv.URL+"/sample.wav", 1024)

	for _, src := range []string{"https://youtu.be/a", "https://youtube.com/watch?v=b"} {
		data, err := f.Fetch(context.Background(), src)
		require.NoError(t, err)
		assert.Equal(t, []byte("RIFF-sample"), data)
	}
	assert.Equal(t, 2, hits)
}

func TestSampleFetcher_Failures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		maxBytes    int64
		errContains string
		errIs       error
	}{
		{
			name:        "upstream error status",
			handler:     func(w http.ResponseWriter, r *http.Request) { http.Error(w, "gone", http.StatusGone) },
			maxBytes:    1024,
			errContains: "unexpected status 410",
		},
		{
			name:     "empty body",
			handler:  func(w http.ResponseWriter, r *http.Request) {},
			maxBytes: 1024,
			errIs:    media.ErrEmptyPayload,
		},
		{
			name:        "oversized body",
			handler:     func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(make([]byte, 64)) },
			maxBytes:    16,
			errContains: "payload exceeds 16 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewSampleFetcher(srv.Client(), srv.URL, tt.maxBytes).Fetch(context.Background(), "https://youtu.be/a")
			require.Error(t, err)
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestServiceFetcher_PassesSourceURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		assert.Equal(t, "opus", r.URL.Query().Get("codec"))
		_, _ = w.Write([]byte("audio:" + r.URL.Query().Get("url")))
	}))
	defer srv.Close()

	f, err := NewServiceFetcher(srv.Client(), srv.URL+"/extract?codec=opus", 1024)
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc&t=5")
	require.NoError(t, err)
	assert.Equal(t, "audio:https://www.youtube.com/watch?v=abc&t=5", string(data))
}

func TestNewServiceFetcher_InvalidURL(t *testing.T) {
	_, err := NewServiceFetcher(http.DefaultClient, "localhost:8080/extract", 1024)
	assert.Error(t, err)
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intro.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF-local"), 0644))

	f := NewFileFetcher(path, stubChecker{path: true}, 1024)
	data, err := f.Fetch(context.Background(), "https://youtu.be/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-local"), data)

	missing := NewFileFetcher(filepath.Join(dir, "missing.wav"), stubChecker{}, 1024)
	_, err = missing.Fetch(context.Background(), "https://youtu.be/a")
	assert.ErrorContains(t, err, "sample file does not exist")
}

type stubChecker map[string]bool

func (s stubChecker) Exists(path string) bool { return s[path] }

type stubRunner struct {
	out  []byte
	err  error
	name string
	args []string
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) error {
	return errors.New("not used")
}

func (r *stubRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.name, r.args = name, args
	return r.out, r.err
}

func TestCommandFetcher(t *testing.T) {
	runner := &stubRunner{out: []byte("opus-bytes")}
	f := NewCommandFetcher(runner, "yt-dlp", []string{"-x", "-o", "-", "{url}"}, 1024)

	data, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("opus-bytes"), data)
	assert.Equal(t, "yt-dlp", runner.name)
	assert.Equal(t, []string{"-x", "-o", "-", "https://youtu.be/abc"}, runner.args)
}

func TestCommandFetcher_AppendsURLWithoutPlaceholder(t *testing.T) {
	f := NewCommandFetcher(&stubRunner{}, "extract-audio", []string{"--stdout"}, 1024)
	assert.Equal(t, []string{"--stdout", "https://youtu.be/abc"}, f.Args("https://youtu.be/abc"))
}

func TestCommandFetcher_Failure(t *testing.T) {
	f := NewCommandFetcher(&stubRunner{err: errors.New("exit status 1")}, "yt-dlp", nil, 1024)

	_, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	assert.ErrorContains(t, err, "yt-dlp extraction failed")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SourceConfig
		want    any
		wantErr bool
	}{
		{"sample", config.SourceConfig{Strategy: config.StrategySample, SampleURL: "https://example.com/a.wav"}, &SampleFetcher{}, false},
		{"file", config.SourceConfig{Strategy: config.StrategyFile, SampleFile: "/tmp/a.wav"}, &FileFetcher{}, false},
		{"service", config.SourceConfig{Strategy: config.StrategyService, ServiceURL: "http://extractor:8080/audio"}, &ServiceFetcher{}, false},
		{"command", config.SourceConfig{Strategy: config.StrategyCommand, Command: "yt-dlp"}, &CommandFetcher{}, false},
		{"unknown", config.SourceConfig{Strategy: "torrent"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
