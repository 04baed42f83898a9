package oto

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/voicecapture/pkg/audio/resampler"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

var outputFormat = resampler.Format{
	Channels:   Channels,
	SampleRate: SampleRate,
	PCMFormat:  Format,
}

type PlayerPCM struct {
	OtoCtx *oto.Context
}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() (*PlayerPCM, error) {
	otoCtx, err := getOtoContext()
	if err != nil {
		return nil, fmt.Errorf("unable to get an oto context: %w", err)
	}

	return &PlayerPCM{
		OtoCtx: otoCtx,
	}, nil
}

// Close does nothing: the oto context cannot be re-created, so it lives
// until the process exits.
func (p *PlayerPCM) Close() error {
	return nil
}

func (p *PlayerPCM) Ping(context.Context) error {
	return p.OtoCtx.Err()
}

func (p *PlayerPCM) PlayPCM(
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
	format types.PCMFormat,
	bufferSize time.Duration,
	reader io.Reader,
) (_ types.PlayStream, _err error) {
	logger.Debugf(ctx, "PlayPCM: %d, %d, %s, %v", sampleRate, channels, format, bufferSize)
	defer func() { logger.Debugf(ctx, "/PlayPCM: %v", _err) }()

	if bufferSize != BufferSize {
		logger.Debugf(ctx, "requested buffer size %v is ignored, oto is configured for %v", bufferSize, BufferSize)
	}
	inFmt := resampler.Format{
		Channels:   channels,
		SampleRate: sampleRate,
		PCMFormat:  format,
	}
	if inFmt != outputFormat {
		var err error
		reader, err = resampler.NewConverter(inFmt, reader, outputFormat)
		if err != nil {
			return nil, fmt.Errorf("unable to convert %#+v to %#+v: %w", inFmt, outputFormat, err)
		}
	}

	player := p.OtoCtx.NewPlayer(reader)
	player.Play()

	return newStream(player), nil
}
