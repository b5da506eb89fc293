package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appclient "anime-ringtone/application/client"
	"anime-ringtone/infrastructure/config"
	"anime-ringtone/infrastructure/logger"
)

type stubVerifier struct {
	err error
}

func (s stubVerifier) VerifyInstalled(ctx context.Context) error {
	return s.err
}

func TestRunCheck(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunCheckWithDependencies(context.Background(), stubVerifier{}, "ffmpeg", &out))
	assert.Contains(t, out.String(), `ffmpeg is available at "ffmpeg"`)

	out.Reset()
	err := RunCheckWithDependencies(context.Background(), stubVerifier{err: errors.New("not found")}, "/opt/ffmpeg", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg verification failed")
	assert.Contains(t, out.String(), "/opt/ffmpeg")
}

type stubClient struct {
	resp        *appclient.Response
	err         error
	downloadErr error
	downloaded  string
}

func (s *stubClient) Convert(ctx context.Context, sourceURL string) (*appclient.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubClient) Download(ctx context.Context, previewURL string, w io.Writer) (int64, error) {
	if s.downloadErr != nil {
		return 0, s.downloadErr
	}
	s.downloaded = previewURL
	n, err := io.WriteString(w, "mp3")
	return int64(n), err
}

func TestRunConvert(t *testing.T) {
	client := &stubClient{resp: &appclient.Response{PreviewURL: "/api/preview/abc", Title: "Processed Anime Intro"}}
	path := filepath.Join(t.TempDir(), "intro.mp3")
	var out bytes.Buffer

	require.NoError(t, RunConvertWithDependencies(context.Background(), client, "https://youtu.be/abc", path, &out))

	assert.Equal(t, "/api/preview/abc", client.downloaded)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3", string(data))
	assert.Contains(t, out.String(), "[processing] Processing...  https://youtu.be/abc")
	assert.Contains(t, out.String(), "[complete] Processed Anime Intro  /api/preview/abc")
	assert.Contains(t, out.String(), "Saved 3 bytes")
}

func TestRunConvert_WithoutDownload(t *testing.T) {
	client := &stubClient{resp: &appclient.Response{PreviewURL: "/api/preview/abc", Title: "t"}}

	require.NoError(t, RunConvertWithDependencies(context.Background(), client, "https://youtu.be/abc", "", &bytes.Buffer{}))
	assert.Empty(t, client.downloaded)
}

func TestRunConvert_Failures(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	rejected := filepath.Join(dir, "rejected.mp3")
	err := RunConvertWithDependencies(context.Background(), &stubClient{err: errors.New("400")}, "not-a-url", rejected, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversion failed")
	assert.Contains(t, out.String(), "[error] Error  not-a-url")
	assert.NoFileExists(t, rejected, "no output file is created for a failed conversion")

	missing := filepath.Join(dir, "missing.mp3")
	client := &stubClient{resp: &appclient.Response{PreviewURL: "/p"}, downloadErr: errors.New("404")}
	err = RunConvertWithDependencies(context.Background(), client, "https://youtu.be/abc", missing, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download failed")
	assert.NoFileExists(t, missing, "a failed download leaves no file behind")
}

func TestRunConfigShow(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunConfigShowWithDependencies(config.Default(), &out))

	assert.Contains(t, out.String(), "server.address")
	assert.Contains(t, out.String(), "0.0.0.0:3000")
	assert.Contains(t, out.String(), "Processed Anime Intro")
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("server:\n  port: 8080\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("storage:\n  id_scheme: sequential\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, RunConfigValidateWithDependencies(good, &out))
	assert.Contains(t, out.String(), "is valid")

	err := RunConfigValidateWithDependencies(bad, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.id_scheme")

	assert.Error(t, RunConfigValidateWithDependencies(filepath.Join(dir, "missing.yaml"), &out))
}

type noopRunner struct{}

func (noopRunner) Run(ctx context.Context, name string, args ...string) error { return nil }
func (noopRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte("ffmpeg version 6.1"), nil
}

type noopFetcher struct{}

func (noopFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	return []byte("wav"), nil
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Metrics.Enabled = true
	cfg.Metrics.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServeWithDependencies(ctx, cfg, noopRunner{}, noopFetcher{}, logger.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestRunServe_InvalidStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.IDScheme = "sequential"

	err := RunServeWithDependencies(context.Background(), cfg, noopRunner{}, noopFetcher{}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preview store")
}
