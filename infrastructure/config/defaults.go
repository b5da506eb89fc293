package config

import (
	"time"

	"anime-ringtone/domain/media"
)

// Default values for settings not present in the config file
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 3000
	DefaultReadTimeout     = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultTitle           = "Processed Anime Intro"
	DefaultPreviewPath     = "/api/preview/"
	DefaultSampleURL       = "https://www2.cs.uic.edu/~i101/SoundFiles/BabyElephantWalk60.wav"
	DefaultSourceMaxBytes  = 100 << 20
	DefaultMetricsAddress  = "127.0.0.1:9090"
)

// Source strategies
const (
	StrategySample  = "sample"
	StrategyFile    = "file"
	StrategyService = "service"
	StrategyCommand = "command"
)

// Default returns a configuration with every default applied
func Default() *Config {
	profile := media.DefaultProfile()
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
		},
		Conversion: ConversionConfig{
			Title:       DefaultTitle,
			PreviewPath: DefaultPreviewPath,
		},
		Profile: ProfileConfig{
			Start:      profile.Start.String(),
			MaxLength:  profile.MaxLength.String(),
			SampleRate: profile.SampleRate,
			Channels:   profile.Channels,
			Bitrate:    profile.Bitrate,
			Format:     profile.Format,
		},
		Transcoder: TranscoderConfig{
			FFmpegPath:    "ffmpeg",
			MaxConcurrent: 1,
		},
		Source: SourceConfig{
			Strategy:  StrategySample,
			SampleURL: DefaultSampleURL,
			MaxBytes:  DefaultSourceMaxBytes,
		},
		Storage: StorageConfig{
			IDScheme: "uuid",
		},
		Metrics: MetricsConfig{
			Address: DefaultMetricsAddress,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
