package recording

import (
	"time"

	"github.com/xaionaro-go/voicecapture/pkg/config"
)

// DefaultTrimMargin is the audio kept around detected speech.
const DefaultTrimMargin = 300 * time.Millisecond

type Options struct {
	// CacheDir is where the artifacts are written.
	CacheDir string

	StopPollInterval    time.Duration
	StopTimeout         time.Duration
	CapturePollInterval time.Duration

	TrimSilence bool
	TrimMargin  time.Duration
	VADMode     int

	ConcealDrops bool
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		CacheDir:            cfg.CacheDir,
		StopPollInterval:    cfg.StopPollInterval,
		StopTimeout:         cfg.StopTimeout,
		CapturePollInterval: cfg.CapturePollInterval,
		TrimSilence:         cfg.TrimSilence,
		TrimMargin:          DefaultTrimMargin,
		VADMode:             cfg.VADMode,
		ConcealDrops:        cfg.ConcealDrops,
	}
}

// withDefaults fills the zero fields. VADMode 0 is a valid mode and is
// kept as is.
func (opts Options) withDefaults() Options {
	if opts.CacheDir == "" {
		opts.CacheDir = config.DefaultCacheDir()
	}
	if opts.StopPollInterval <= 0 {
		opts.StopPollInterval = config.DefaultStopPollInterval
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = config.DefaultStopTimeout
	}
	if opts.CapturePollInterval <= 0 {
		opts.CapturePollInterval = config.DefaultCapturePollInterval
	}
	if opts.TrimMargin <= 0 {
		opts.TrimMargin = DefaultTrimMargin
	}
	return opts
}
