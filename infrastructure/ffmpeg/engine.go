package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"anime-ringtone/domain/media"
	"anime-ringtone/infrastructure/logger"
	"anime-ringtone/infrastructure/process"

	"golang.org/x/sync/semaphore"
)

// verifyTimeout bounds the one-time `ffmpeg -version` probe
const verifyTimeout = 5 * time.Second

// Engine implements media.Transcoder using ffmpeg.
//
// The engine is initialized lazily on first use by probing the ffmpeg binary.
// An initialization failure is kept: every later call fails with
// media.ErrEngineUnavailable until a new Engine is constructed.
type Engine struct {
	ffmpegPath string
	scratchDir string
	runner     process.CommandRunner
	profile    media.TranscodeProfile
	slots      *semaphore.Weighted
	log        logger.Logger

	initMu      sync.Mutex
	initialized bool
	initErr     error
}

// EngineOption is a functional option for configuring Engine
type EngineOption func(*Engine)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) EngineOption {
	return func(e *Engine) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner process.CommandRunner) EngineOption {
	return func(e *Engine) {
		e.runner = runner
	}
}

// WithProfile sets the transcode profile applied to every call
func WithProfile(profile media.TranscodeProfile) EngineOption {
	return func(e *Engine) {
		e.profile = profile
	}
}

// WithMaxConcurrent sets how many transcodes may run at once. Values below 1 mean 1.
func WithMaxConcurrent(n int) EngineOption {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.slots = semaphore.NewWeighted(int64(n))
	}
}

// WithScratchDir sets the parent directory for per-call working directories
func WithScratchDir(dir string) EngineOption {
	return func(e *Engine) {
		e.scratchDir = dir
	}
}

// WithLogger sets the engine logger
func WithLogger(log logger.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates a new FFmpeg-based transcoder. It does not touch ffmpeg until first use.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		ffmpegPath: "ffmpeg",
		runner:     &process.ExecCommandRunner{},
		profile:    media.DefaultProfile(),
		slots:      semaphore.NewWeighted(1),
		log:        logger.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Profile implements media.Transcoder
func (e *Engine) Profile() media.TranscodeProfile {
	return e.profile
}

// Transcode implements media.Transcoder
func (e *Engine) Transcode(ctx context.Context, input []byte) ([]byte, error) {
	if err := e.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("ffmpeg transcode: %w", media.ErrEmptyPayload)
	}

	if err := e.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for transcoder slot: %w", err)
	}
	defer e.slots.Release(1)

	workDir, err := os.MkdirTemp(e.scratchDir, "transcode-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			e.log.Warn("Failed to remove scratch directory",
				logger.String("dir", workDir),
				logger.Error(rmErr),
			)
		}
	}()

	inputPath := filepath.Join(workDir, "input")
	outputPath := filepath.Join(workDir, "output."+e.profile.Format)

	if err := os.WriteFile(inputPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write transcoder input: %w", err)
	}

	start := time.Now()
	if err := e.runner.Run(ctx, e.ffmpegPath, e.Args(inputPath, outputPath)...); err != nil {
		return nil, fmt.Errorf("ffmpeg transcode failed: %w", err)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcoder output: %w", err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("ffmpeg transcode: %w", media.ErrEmptyPayload)
	}

	e.log.Debug("Transcoded clip",
		logger.Int("input_bytes", len(input)),
		logger.Int("output_bytes", len(output)),
		logger.Duration("elapsed", time.Since(start)),
	)

	return output, nil
}

// Args returns the ffmpeg arguments for one transcode between the given paths
func (e *Engine) Args(inputPath, outputPath string) []string {
	p := e.profile
	args := []string{"-y"}
	if !p.Start.IsZero() {
		args = append(args, "-ss", p.Start.String())
	}
	args = append(args,
		"-i", inputPath,
		"-vn", // Audio only
		"-t", strconv.Itoa(p.MaxLength.TotalSeconds()),
		"-ar", strconv.Itoa(p.SampleRate),
		"-ac", strconv.Itoa(p.Channels),
		"-b:a", p.Bitrate,
		"-f", p.Format,
		outputPath,
	)
	return args
}

// VerifyInstalled checks that ffmpeg is available
func (e *Engine) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// ensureInitialized probes ffmpeg exactly once per Engine and remembers the outcome
func (e *Engine) ensureInitialized(ctx context.Context) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.initialized {
		return e.initErr
	}
	e.initialized = true

	// The probe must not inherit the caller's cancellation: its result is shared by every later call.
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), verifyTimeout)
	defer cancel()

	if err := e.VerifyInstalled(probeCtx); err != nil {
		e.initErr = fmt.Errorf("%w: %w", media.ErrEngineUnavailable, err)
		e.log.Error("FFmpeg initialization failed", logger.Error(err))
		return e.initErr
	}

	e.log.Info("FFmpeg engine initialized", logger.String("ffmpeg_path", e.ffmpegPath))
	return nil
}

// Ensure Engine implements media.Transcoder
var _ media.Transcoder = (*Engine)(nil)
