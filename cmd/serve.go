package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"anime-ringtone/application/conversion"
	apppreview "anime-ringtone/application/preview"
	"anime-ringtone/domain/media"
	"anime-ringtone/infrastructure/config"
	"anime-ringtone/infrastructure/ffmpeg"
	"anime-ringtone/infrastructure/httpapi"
	"anime-ringtone/infrastructure/logger"
	"anime-ringtone/infrastructure/memstore"
	"anime-ringtone/infrastructure/metrics"
	"anime-ringtone/infrastructure/process"
	"anime-ringtone/infrastructure/source"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion HTTP API",
	Long: `Run the HTTP API until interrupted.

Converted clips live in memory and are gone when the process exits.
ffmpeg is probed on the first conversion; if it is missing every conversion
fails with "Failed to initialize FFmpeg" until the server is restarted.

Example:
  anime-ringtone serve
  anime-ringtone serve --port 8080 --config ./config/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	fetcher, err := source.New(cfg.Source)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunServeWithDependencies(ctx, cfg, &process.ExecCommandRunner{}, fetcher, log)
}

// RunServeWithDependencies wires the API and serves until ctx is cancelled (for testing)
func RunServeWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	runner process.CommandRunner,
	fetcher media.SourceFetcher,
	log logger.Logger,
) error {
	profile, err := cfg.Profile.TranscodeProfile()
	if err != nil {
		return err
	}

	engine := ffmpeg.NewEngine(
		ffmpeg.WithFFmpegPath(cfg.Transcoder.FFmpegPath),
		ffmpeg.WithCommandRunner(runner),
		ffmpeg.WithProfile(profile),
		ffmpeg.WithMaxConcurrent(cfg.Transcoder.MaxConcurrent),
		ffmpeg.WithScratchDir(cfg.Transcoder.ScratchDir),
		ffmpeg.WithLogger(log),
	)

	store, err := memstore.Open(cfg.Storage.IDScheme, cfg.Storage.MaxEntries, log)
	if err != nil {
		return fmt.Errorf("failed to open preview store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("Failed to close preview store", logger.Error(closeErr))
		}
	}()

	convOpts := []conversion.Option{conversion.WithLogger(log)}
	var previewRecorder apppreview.Recorder
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		collector.RegisterGauge("previews_held", "Previews currently held in memory.", func() float64 {
			return float64(store.Len())
		})
		convOpts = append(convOpts, conversion.WithRecorder(collector))
		previewRecorder = collector
	}

	conversions := conversion.NewService(fetcher, engine, store, cfg.Conversion.Title, cfg.Conversion.PreviewPath, convOpts...)
	previews := apppreview.NewService(store, log, previewRecorder)

	router, err := httpapi.NewRouter(httpapi.RouterConfig{
		Debug: cfg.Server.Debug,
		CORS:  cfg.CORS,
	}, httpapi.NewHandlers(conversions, previews, log), log)
	if err != nil {
		return err
	}

	api := httpapi.NewServer(httpapi.ServerConfig{
		Name:            "api",
		Address:         cfg.Server.Address(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)

	log.Info("Conversion service configured",
		logger.String("source_strategy", cfg.Source.Strategy),
		logger.String("id_scheme", cfg.Storage.IDScheme),
		logger.Int("max_entries", cfg.Storage.MaxEntries),
		logger.Int("max_concurrent", cfg.Transcoder.MaxConcurrent),
		logger.Bool("metrics", cfg.Metrics.Enabled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return api.Run(gctx) })

	if collector != nil {
		admin := httpapi.NewServer(httpapi.ServerConfig{
			Name:            "metrics",
			Address:         cfg.Metrics.Address,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		}, metricsMux(collector), log)
		g.Go(func() error { return admin.Run(gctx) })
	}

	return g.Wait()
}
