package transcription

import (
	"context"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Transcriber turns a mono 16 kHz 16-bit PCM WAV file into text.
// An empty language means auto-detection.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string, language string) (string, error)
}

// TranscribeAndDelete transcribes the artifact and then deletes it,
// whatever the outcome of the transcription is.
func TranscribeAndDelete(
	ctx context.Context,
	t Transcriber,
	wavPath string,
	language string,
) (_ string, _err error) {
	logger.Debugf(ctx, "TranscribeAndDelete: '%s', '%s'", wavPath, language)
	defer func() { logger.Debugf(ctx, "/TranscribeAndDelete: %v", _err) }()

	if _, err := os.Stat(wavPath); err != nil {
		return "", fmt.Errorf("the audio file is not accessible: %w", err)
	}
	defer func() {
		if err := os.Remove(wavPath); err != nil {
			logger.Warnf(ctx, "unable to delete '%s': %v", wavPath, err)
		}
	}()

	if language == "auto" {
		language = ""
	}
	text, err := t.Transcribe(ctx, wavPath, language)
	if err != nil {
		return "", fmt.Errorf("unable to transcribe '%s': %w", wavPath, err)
	}
	return text, nil
}
