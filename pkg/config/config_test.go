package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "from-env")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
backend: pulseaudio
cache_dir: /tmp/rec
stop_timeout: 5s
trim_silence: true
transcription:
  enabled: true
  language: de
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "pulseaudio", cfg.Backend)
		assert.Equal(t, "/tmp/rec", cfg.CacheDir)
		assert.Equal(t, 5*time.Second, cfg.StopTimeout)
		assert.Equal(t, DefaultStopPollInterval, cfg.StopPollInterval)
		assert.True(t, cfg.TrimSilence)
		assert.True(t, cfg.Transcription.Enabled)
		assert.Equal(t, "de", cfg.Transcription.Language)
		assert.Equal(t, DefaultTranscriptionModel, cfg.Transcription.Model)
		assert.Equal(t, "from-env", cfg.Transcription.APIKey)
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vad_mode: 9\n"), 0o600))
		_, err := Load(path)
		require.Error(t, err)

		require.NoError(t, os.WriteFile(path, []byte("backend: [\n"), 0o600))
		_, err = Load(path)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.StopTimeout = time.Millisecond
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.CacheDir = ""
	require.Error(t, cfg.Validate())
}
