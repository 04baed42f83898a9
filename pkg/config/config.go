package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "voicecapture"

	EnvAPIKey = "OPENAI_API_KEY"

	DefaultStopPollInterval    = 20 * time.Millisecond
	DefaultStopTimeout         = 2 * time.Second
	DefaultCapturePollInterval = 50 * time.Millisecond
	DefaultVADMode             = 2
	DefaultTranscriptionModel  = "whisper-1"
)

type Config struct {
	Backend             string        `yaml:"backend"`
	CacheDir            string        `yaml:"cache_dir"`
	StopPollInterval    time.Duration `yaml:"stop_poll_interval"`
	StopTimeout         time.Duration `yaml:"stop_timeout"`
	CapturePollInterval time.Duration `yaml:"capture_poll_interval"`
	TrimSilence         bool          `yaml:"trim_silence"`
	VADMode             int           `yaml:"vad_mode"`
	ConcealDrops        bool          `yaml:"conceal_drops"`
	Transcription       Transcription `yaml:"transcription"`
}

type Transcription struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

// DefaultCacheDir is where recordings are written unless configured otherwise.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultPath is the location of the configuration file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

func Default() Config {
	return Config{
		Backend:             "auto",
		CacheDir:            DefaultCacheDir(),
		StopPollInterval:    DefaultStopPollInterval,
		StopTimeout:         DefaultStopTimeout,
		CapturePollInterval: DefaultCapturePollInterval,
		VADMode:             DefaultVADMode,
		Transcription: Transcription{
			Model: DefaultTranscriptionModel,
		},
	}
}

// Load reads the YAML file at path on top of Default(). A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("unable to parse '%s': %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("unable to read '%s': %w", path, err)
	}

	if cfg.Transcription.APIKey == "" {
		cfg.Transcription.APIKey = os.Getenv(EnvAPIKey)
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if cfg.CacheDir == "" {
		return fmt.Errorf("cache_dir is empty")
	}
	if cfg.StopPollInterval <= 0 {
		return fmt.Errorf("stop_poll_interval must be positive, got %v", cfg.StopPollInterval)
	}
	if cfg.StopTimeout < cfg.StopPollInterval {
		return fmt.Errorf("stop_timeout (%v) is shorter than stop_poll_interval (%v)", cfg.StopTimeout, cfg.StopPollInterval)
	}
	if cfg.CapturePollInterval <= 0 {
		return fmt.Errorf("capture_poll_interval must be positive, got %v", cfg.CapturePollInterval)
	}
	if cfg.VADMode < 0 || cfg.VADMode > 3 {
		return fmt.Errorf("vad_mode must be within [0, 3], got %d", cfg.VADMode)
	}
	if cfg.Transcription.Enabled && cfg.Transcription.Model == "" {
		return fmt.Errorf("transcription.model is empty")
	}
	return nil
}
