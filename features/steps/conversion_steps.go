//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"time"

	appclient "anime-ringtone/application/client"
	appconversion "anime-ringtone/application/conversion"
	apppreview "anime-ringtone/application/preview"
	"anime-ringtone/domain/conversion"
	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/apiclient"
	"anime-ringtone/infrastructure/config"
	"anime-ringtone/infrastructure/ffmpeg"
	"anime-ringtone/infrastructure/httpapi"
	"anime-ringtone/infrastructure/logger"
	"anime-ringtone/infrastructure/memstore"

	"github.com/cucumber/godog"
)

// clipBytes is what the fake ffmpeg writes as transcoder output
var clipBytes = []byte("ID3\x04fake-mp3-frame")

// fakeFFmpeg imitates the ffmpeg binary: -version succeeds unless versionErr is set,
// and a transcode writes clipBytes to the output path.
type fakeFFmpeg struct {
	mu         sync.Mutex
	versionErr error
}

func (f *fakeFFmpeg) Run(ctx context.Context, name string, args ...string) error {
	return os.WriteFile(args[len(args)-1], clipBytes, 0o600)
}

func (f *fakeFFmpeg) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.versionErr != nil {
		return nil, f.versionErr
	}
	return []byte("ffmpeg version 6.1"), nil
}

// switchableFetcher returns a fixed payload or fails when unreachable is set
type switchableFetcher struct {
	unreachable bool
}

func (f *switchableFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	if f.unreachable {
		return nil, errors.New("dial tcp: connection refused")
	}
	return []byte("RIFF-sample-wav"), nil
}

type conversionContext struct {
	tempDir string
	server  *httptest.Server
	store   preview.Store
	runner  *fakeFFmpeg
	fetcher *switchableFetcher
	handles preview.HandleGenerator

	status      int
	header      http.Header
	body        []byte
	previewURLs []string
	downloads   [][]byte

	clientStates []conversion.State
	converter    *appclient.Converter
}

var SharedConversionContext = &conversionContext{}

func InitializeConversionScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "conversion-test-*")
		if err != nil {
			return c, err
		}
		SharedConversionContext = &conversionContext{
			tempDir: tempDir,
			runner:  &fakeFFmpeg{},
			fetcher: &switchableFetcher{},
			handles: memstore.UUIDGenerator{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedConversionContext.stop()
		if SharedConversionContext.tempDir != "" {
			os.RemoveAll(SharedConversionContext.tempDir)
		}
		return c, nil
	})

	// Step closures resolve the shared context at call time since Before replaces it
	s := func() *conversionContext { return SharedConversionContext }

	ctx.Step(`^the conversion API is running$`, func() error { return s().start() })
	ctx.Step(`^the audio source is unreachable$`, func() error { return s().theAudioSourceIsUnreachable() })
	ctx.Step(`^ffmpeg is not installed$`, func() error { return s().ffmpegIsNotInstalled() })
	ctx.Step(`^the preview store uses timestamp handles with a frozen clock$`, func() error { return s().timestampHandlesWithFrozenClock() })
	ctx.Step(`^I submit the URL "([^"]*)"$`, func(u string) error { return s().iSubmitTheURL(u) })
	ctx.Step(`^I submit the body '(.*)'$`, func(body string) error { return s().iSubmitTheBody(body) })
	ctx.Step(`^I download the preview(?: again)?$`, func() error { return s().iDownloadThePreview() })
	ctx.Step(`^I request the preview "([^"]*)"$`, func(id string) error { return s().iRequestThePreview(id) })
	ctx.Step(`^the response status should be (\d+)$`, func(code int) error { return s().theResponseStatusShouldBe(code) })
	ctx.Step(`^the response should report success with title "([^"]*)"$`, func(title string) error { return s().theResponseShouldReportSuccess(title) })
	ctx.Step(`^the preview URL should start with "([^"]*)"$`, func(prefix string) error { return s().thePreviewURLShouldStartWith(prefix) })
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, func(k, v string) error { return s().theResponseHeaderShouldBe(k, v) })
	ctx.Step(`^the downloaded clip should match the transcoder output$`, func() error { return s().theDownloadedClipShouldMatch() })
	ctx.Step(`^both downloads should be identical$`, func() error { return s().bothDownloadsShouldBeIdentical() })
	ctx.Step(`^the error message should be "([^"]*)"$`, func(msg string) error { return s().theErrorMessageShouldBe(msg) })
	ctx.Step(`^no preview should be stored$`, func() error { return s().previewsStoredShouldBe(0) })
	ctx.Step(`^only (\d+) previews? should be stored$`, func(n int) error { return s().previewsStoredShouldBe(n) })
	ctx.Step(`^both conversions should share one preview URL$`, func() error { return s().bothConversionsShouldShareOnePreviewURL() })
	ctx.Step(`^the client converts "([^"]*)"$`, func(u string) error { return s().theClientConverts(u) })
	ctx.Step(`^the client states should be:$`, func(table *godog.Table) error { return s().theClientStatesShouldBe(table) })
	ctx.Step(`^the client should not be converting$`, func() error { return s().theClientShouldNotBeConverting() })
	ctx.Step(`^the client state URL should be "([^"]*)"$`, func(u string) error { return s().theClientStateURLShouldBe(u) })
}

// start builds the full stack around the fake engine and serves it with httptest
func (s *conversionContext) start() error {
	s.stop()

	log := logger.NewNop()
	s.store = memstore.New(memstore.WithHandleGenerator(s.handles))
	engine := ffmpeg.NewEngine(ffmpeg.WithCommandRunner(s.runner), ffmpeg.WithScratchDir(s.tempDir))

	conversions := appconversion.NewService(s.fetcher, engine, s.store, config.DefaultTitle, config.DefaultPreviewPath)
	previews := apppreview.NewService(s.store, log, nil)

	router, err := httpapi.NewRouter(httpapi.RouterConfig{CORS: config.Default().CORS}, httpapi.NewHandlers(conversions, previews, log), log)
	if err != nil {
		return err
	}
	s.server = httptest.NewServer(router)
	return nil
}

func (s *conversionContext) stop() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
	}
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

func (s *conversionContext) theAudioSourceIsUnreachable() error {
	s.fetcher.unreachable = true
	return nil
}

func (s *conversionContext) ffmpegIsNotInstalled() error {
	s.runner.mu.Lock()
	defer s.runner.mu.Unlock()
	s.runner.versionErr = errors.New(`exec: "ffmpeg": executable file not found in $PATH`)
	return nil
}

func (s *conversionContext) timestampHandlesWithFrozenClock() error {
	frozen := time.UnixMilli(1700000000000)
	s.handles = memstore.TimestampGenerator{Now: func() time.Time { return frozen }}
	return s.start()
}

func (s *conversionContext) iSubmitTheURL(sourceURL string) error {
	body, err := json.Marshal(map[string]string{"youtubeUrl": sourceURL})
	if err != nil {
		return err
	}
	return s.iSubmitTheBody(string(body))
}

func (s *conversionContext) iSubmitTheBody(body string) error {
	resp, err := http.Post(s.server.URL+"/api/convert", "application/json", strings.NewReader(body))
	if err != nil {
		return err
	}
	if err := s.record(resp); err != nil {
		return err
	}

	if s.status == http.StatusOK {
		var out struct {
			PreviewURL string `json:"previewUrl"`
		}
		if err := json.Unmarshal(s.body, &out); err != nil {
			return fmt.Errorf("decode conversion response: %w", err)
		}
		s.previewURLs = append(s.previewURLs, out.PreviewURL)
	}
	return nil
}

func (s *conversionContext) iDownloadThePreview() error {
	if len(s.previewURLs) == 0 {
		return fmt.Errorf("no preview URL has been returned yet")
	}
	resp, err := http.Get(s.server.URL + s.previewURLs[len(s.previewURLs)-1])
	if err != nil {
		return err
	}
	if err := s.record(resp); err != nil {
		return err
	}
	s.downloads = append(s.downloads, s.body)
	return nil
}

func (s *conversionContext) iRequestThePreview(id string) error {
	resp, err := http.Get(s.server.URL + config.DefaultPreviewPath + id)
	if err != nil {
		return err
	}
	return s.record(resp)
}

func (s *conversionContext) record(resp *http.Response) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	s.status = resp.StatusCode
	s.header = resp.Header
	s.body = body
	return nil
}

func (s *conversionContext) theResponseStatusShouldBe(code int) error {
	if s.status != code {
		return fmt.Errorf("expected status %d, got %d (body %s)", code, s.status, s.body)
	}
	return nil
}

func (s *conversionContext) theResponseShouldReportSuccess(title string) error {
	var out struct {
		Success bool   `json:"success"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(s.body, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("expected success to be true")
	}
	if out.Title != title {
		return fmt.Errorf("expected title %q, got %q", title, out.Title)
	}
	return nil
}

func (s *conversionContext) thePreviewURLShouldStartWith(prefix string) error {
	if len(s.previewURLs) == 0 {
		return fmt.Errorf("no preview URL has been returned")
	}
	if got := s.previewURLs[len(s.previewURLs)-1]; !strings.HasPrefix(got, prefix) {
		return fmt.Errorf("expected preview URL to start with %q, got %q", prefix, got)
	}
	return nil
}

func (s *conversionContext) theResponseHeaderShouldBe(key, expected string) error {
	if got := s.header.Get(key); got != expected {
		return fmt.Errorf("expected header %s %q, got %q", key, expected, got)
	}
	return nil
}

func (s *conversionContext) theDownloadedClipShouldMatch() error {
	if !bytes.Equal(s.body, clipBytes) {
		return fmt.Errorf("expected clip %q, got %q", clipBytes, s.body)
	}
	if got := s.header.Get("Content-Length"); got != fmt.Sprint(len(clipBytes)) {
		return fmt.Errorf("expected Content-Length %d, got %s", len(clipBytes), got)
	}
	return nil
}

func (s *conversionContext) bothDownloadsShouldBeIdentical() error {
	if len(s.downloads) != 2 {
		return fmt.Errorf("expected 2 downloads, got %d", len(s.downloads))
	}
	if !bytes.Equal(s.downloads[0], s.downloads[1]) {
		return fmt.Errorf("downloads differ")
	}
	return nil
}

func (s *conversionContext) theErrorMessageShouldBe(expected string) error {
	var out httpapi.ErrorResponse
	if err := json.Unmarshal(s.body, &out); err != nil {
		return fmt.Errorf("decode error body %q: %w", s.body, err)
	}
	if out.Message != expected {
		return fmt.Errorf("expected message %q, got %q", expected, out.Message)
	}
	if out.StatusCode != s.status {
		return fmt.Errorf("body statusCode %d does not match response status %d", out.StatusCode, s.status)
	}
	return nil
}

func (s *conversionContext) previewsStoredShouldBe(n int) error {
	if got := s.store.Len(); got != n {
		return fmt.Errorf("expected %d stored previews, got %d", n, got)
	}
	return nil
}

func (s *conversionContext) bothConversionsShouldShareOnePreviewURL() error {
	if len(s.previewURLs) != 2 {
		return fmt.Errorf("expected 2 conversions, got %d", len(s.previewURLs))
	}
	if s.previewURLs[0] != s.previewURLs[1] {
		return fmt.Errorf("expected a shared preview URL, got %q and %q", s.previewURLs[0], s.previewURLs[1])
	}
	return nil
}

func (s *conversionContext) theClientConverts(sourceURL string) error {
	client, err := apiclient.New(s.server.URL, 10*time.Second)
	if err != nil {
		return err
	}
	s.converter = appclient.NewConverter(client, func(st conversion.State) {
		s.clientStates = append(s.clientStates, st)
	})
	// Rejections are part of the scenario; the resulting state is asserted instead
	_, _ = s.converter.Convert(context.Background(), sourceURL)
	return nil
}

func (s *conversionContext) theClientStatesShouldBe(table *godog.Table) error {
	rows := table.Rows[1:]
	if len(rows) != len(s.clientStates) {
		return fmt.Errorf("expected %d states, got %d: %v", len(rows), len(s.clientStates), s.clientStates)
	}
	for i, row := range rows {
		want := conversion.Status(row.Cells[0].Value)
		if s.clientStates[i].Status != want || s.clientStates[i].Title != row.Cells[1].Value {
			return fmt.Errorf("state %d: expected %s %q, got %s %q",
				i, want, row.Cells[1].Value, s.clientStates[i].Status, s.clientStates[i].Title)
		}
	}
	return nil
}

func (s *conversionContext) theClientShouldNotBeConverting() error {
	if s.converter.IsConverting() {
		return fmt.Errorf("expected no conversion in flight")
	}
	return nil
}

func (s *conversionContext) theClientStateURLShouldBe(expected string) error {
	if got := s.converter.State().URL; got != expected {
		return fmt.Errorf("expected state URL %q, got %q", expected, got)
	}
	return nil
}
