package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"anime-ringtone/domain/media"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	CORS       CORSConfig       `yaml:"cors"`
	Conversion ConversionConfig `yaml:"conversion"`
	Profile    ProfileConfig    `yaml:"profile"`
	Transcoder TranscoderConfig `yaml:"transcoder"`
	Source     SourceConfig     `yaml:"source"`
	Storage    StorageConfig    `yaml:"storage"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Debug           bool          `yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"` // zero lets long transcodes finish
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns host:port for the listener
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig controls CORS on the /api route group
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ConversionConfig contains the conversion response settings
type ConversionConfig struct {
	Title       string `yaml:"title"`
	PreviewPath string `yaml:"preview_path"`
}

// ProfileConfig contains the transcode profile in config form
type ProfileConfig struct {
	Start      string `yaml:"start"`
	MaxLength  string `yaml:"max_length"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	Bitrate    string `yaml:"bitrate"`
	Format     string `yaml:"format"`
}

// TranscoderConfig contains ffmpeg engine settings
type TranscoderConfig struct {
	FFmpegPath    string `yaml:"ffmpeg_path"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	ScratchDir    string `yaml:"scratch_dir"`
}

// SourceConfig selects and configures the source fetch strategy
type SourceConfig struct {
	Strategy   string        `yaml:"strategy"`
	SampleURL  string        `yaml:"sample_url"`
	SampleFile string        `yaml:"sample_file"`
	ServiceURL string        `yaml:"service_url"`
	Command    string        `yaml:"command"`
	Args       []string      `yaml:"args,omitempty"`
	Timeout    time.Duration `yaml:"timeout"` // zero means no timeout
	MaxBytes   int64         `yaml:"max_bytes"`
}

// StorageConfig contains preview store settings
type StorageConfig struct {
	IDScheme   string `yaml:"id_scheme"`
	MaxEntries int    `yaml:"max_entries"` // zero means unbounded
}

// MetricsConfig controls the Prometheus admin listener
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads and parses the configuration from the specified YAML file.
// Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads the file at path, falling back to defaults when it does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// TranscodeProfile converts the profile section into the domain profile
func (p ProfileConfig) TranscodeProfile() (media.TranscodeProfile, error) {
	start, err := media.ParseTimestamp(p.Start)
	if err != nil {
		return media.TranscodeProfile{}, fmt.Errorf("profile.start: %w", err)
	}

	maxLength, err := media.ParseTimestamp(p.MaxLength)
	if err != nil {
		return media.TranscodeProfile{}, fmt.Errorf("profile.max_length: %w", err)
	}

	profile := media.TranscodeProfile{
		Start:      start,
		MaxLength:  maxLength,
		SampleRate: p.SampleRate,
		Channels:   p.Channels,
		Bitrate:    p.Bitrate,
		Format:     p.Format,
	}
	if err := profile.Validate(); err != nil {
		return media.TranscodeProfile{}, fmt.Errorf("profile: %w", err)
	}
	return profile, nil
}
