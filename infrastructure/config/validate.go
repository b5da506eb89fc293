package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port))
	}
	if !strings.HasPrefix(c.Conversion.PreviewPath, "/") || !strings.HasSuffix(c.Conversion.PreviewPath, "/") {
		errs = append(errs, fmt.Errorf("conversion.preview_path must start and end with '/', got %q", c.Conversion.PreviewPath))
	}
	if _, err := c.Profile.TranscodeProfile(); err != nil {
		errs = append(errs, err)
	}
	if c.Transcoder.MaxConcurrent < 1 {
		errs = append(errs, fmt.Errorf("transcoder.max_concurrent must be at least 1, got %d", c.Transcoder.MaxConcurrent))
	}
	if err := c.Source.validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.IDScheme {
	case "uuid", "timestamp":
	default:
		errs = append(errs, fmt.Errorf("storage.id_scheme must be uuid or timestamp, got %q", c.Storage.IDScheme))
	}
	if c.Storage.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("storage.max_entries must not be negative, got %d", c.Storage.MaxEntries))
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		errs = append(errs, errors.New("metrics.address is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}

func (s SourceConfig) validate() error {
	if s.MaxBytes <= 0 {
		return fmt.Errorf("source.max_bytes must be positive, got %d", s.MaxBytes)
	}
	switch s.Strategy {
	case StrategySample:
		if s.SampleURL == "" {
			return errors.New("source.sample_url is required for the sample strategy")
		}
	case StrategyFile:
		if s.SampleFile == "" {
			return errors.New("source.sample_file is required for the file strategy")
		}
	case StrategyService:
		if s.ServiceURL == "" {
			return errors.New("source.service_url is required for the service strategy")
		}
	case StrategyCommand:
		if s.Command == "" {
			return errors.New("source.command is required for the command strategy")
		}
	default:
		return fmt.Errorf("unknown source.strategy %q", s.Strategy)
	}
	return nil
}
