package source

import (
	"fmt"

	"anime-ringtone/domain/media"
	"anime-ringtone/infrastructure/config"
	"anime-ringtone/infrastructure/filesystem"
	"anime-ringtone/infrastructure/process"
)

// New builds the fetcher selected by cfg.Strategy
func New(cfg config.SourceConfig) (media.SourceFetcher, error) {
	switch cfg.Strategy {
	case config.StrategySample:
		return NewSampleFetcher(NewHTTPClient(cfg.Timeout), cfg.SampleURL, cfg.MaxBytes), nil
	case config.StrategyFile:
		return NewFileFetcher(cfg.SampleFile, filesystem.NewChecker(), cfg.MaxBytes), nil
	case config.StrategyService:
		return NewServiceFetcher(NewHTTPClient(cfg.Timeout), cfg.ServiceURL, cfg.MaxBytes)
	case config.StrategyCommand:
		return NewCommandFetcher(&process.ExecCommandRunner{}, cfg.Command, cfg.Args, cfg.MaxBytes), nil
	default:
		return nil, fmt.Errorf("unknown source strategy %q", cfg.Strategy)
	}
}
