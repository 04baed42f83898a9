package openai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/voicecapture/pkg/transcription"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Transcriber uses an OpenAI-compatible /audio/transcriptions endpoint.
type Transcriber struct {
	Client openai.Client
	Model  string
}

var _ transcription.Transcriber = (*Transcriber)(nil)

func New(cfg Config) *Transcriber {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Transcriber{
		Client: openai.NewClient(opts...),
		Model:  cfg.Model,
	}
}

func (t *Transcriber) Transcribe(
	ctx context.Context,
	wavPath string,
	language string,
) (_ string, _err error) {
	logger.Debugf(ctx, "Transcribe: '%s', '%s'", wavPath, language)
	defer func() { logger.Debugf(ctx, "/Transcribe: %v", _err) }()

	f, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("unable to open '%s': %w", wavPath, err)
	}
	defer f.Close()

	counter := datacounter.NewReaderCounter(f)
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(counter, filepath.Base(wavPath), "audio/wav"),
		Model: openai.AudioModel(t.Model),
	}
	if language != "" {
		params.Language = openai.String(language)
	}

	resp, err := t.Client.Audio.Transcriptions.New(ctx, params)
	logger.Debugf(ctx, "uploaded %d bytes", counter.Count())
	if err != nil {
		return "", fmt.Errorf("the transcription request failed: %w", err)
	}
	return resp.Text, nil
}
