package transcription

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct {
	text     string
	err      error
	language string
	exists   bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, wavPath string, language string) (string, error) {
	f.language = language
	_, err := os.Stat(wavPath)
	f.exists = err == nil
	return f.text, f.err
}

func TestTranscribeAndDelete(t *testing.T) {
	ctx := context.Background()
	newFile := func(t *testing.T) string {
		path := filepath.Join(t.TempDir(), "rec.wav")
		require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o600))
		return path
	}

	t.Run("Success", func(t *testing.T) {
		path := newFile(t)
		f := &fakeTranscriber{text: "hello"}
		text, err := TranscribeAndDelete(ctx, f, path, "auto")
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		assert.Equal(t, "", f.language)
		assert.True(t, f.exists)
		assert.NoFileExists(t, path)
	})

	t.Run("FailureStillDeletes", func(t *testing.T) {
		path := newFile(t)
		f := &fakeTranscriber{err: errors.New("model is not loaded")}
		_, err := TranscribeAndDelete(ctx, f, path, "en")
		require.Error(t, err)
		assert.Equal(t, "en", f.language)
		assert.NoFileExists(t, path)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := TranscribeAndDelete(ctx, &fakeTranscriber{}, filepath.Join(t.TempDir(), "nope.wav"), "")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
