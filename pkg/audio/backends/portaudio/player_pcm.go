package portaudio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type PlayerPCM struct {
	closeOnce sync.Once
	closeErr  error
}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() (*PlayerPCM, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to initialize PortAudio: %w", err)
	}
	return &PlayerPCM{}, nil
}

func (p *PlayerPCM) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = portaudio.Terminate()
	})
	return p.closeErr
}

func (*PlayerPCM) Ping(
	ctx context.Context,
) error {
	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "device info: %#+v", info)
	return nil
}

func (*PlayerPCM) PlayPCM(
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
	format types.PCMFormat,
	bufferSize time.Duration,
	rawReader io.Reader,
) (_ types.PlayStream, _err error) {
	logger.Debugf(ctx, "PlayPCM: %d, %d, %s, %v", sampleRate, channels, format, bufferSize)
	defer func() { logger.Debugf(ctx, "/PlayPCM: %v", _err) }()

	var (
		s   *PlayPCMStream
		err error
	)
	switch format {
	case types.PCMFormatU8:
		s, err = newPlayPCMStream[uint8](ctx, sampleRate, channels, bufferSize)
	case types.PCMFormatS16LE:
		s, err = newPlayPCMStream[int16](ctx, sampleRate, channels, bufferSize)
	case types.PCMFormatS32LE:
		s, err = newPlayPCMStream[int32](ctx, sampleRate, channels, bufferSize)
	case types.PCMFormatFloat32LE:
		s, err = newPlayPCMStream[float32](ctx, sampleRate, channels, bufferSize)
	default:
		return nil, fmt.Errorf("do not know how to start a stream for PCM format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open an output stream: %w", err)
	}

	if err := s.init(ctx, rawReader); err != nil {
		s.Close()
		return nil, fmt.Errorf("unable to post-initialize the stream: %w", err)
	}
	return s, nil
}
