package portaudio

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

// MaxChannels caps the channel count requested from multichannel
// interfaces; everything is downmixed to mono afterwards anyway.
const MaxChannels = 2

type DeviceSession struct {
	closeOnce sync.Once
	closeErr  error
}

var _ types.DeviceSession = (*DeviceSession)(nil)

func NewDeviceSession() (*DeviceSession, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to initialize PortAudio: %w", err)
	}
	return &DeviceSession{}, nil
}

func (s *DeviceSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = portaudio.Terminate()
	})
	return s.closeErr
}

func (*DeviceSession) Ping(
	ctx context.Context,
) error {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "device info: %#+v", info)

	if devices, err := portaudio.Devices(); err == nil {
		for idx, device := range devices {
			logger.Tracef(ctx, "devices[%d]: %#+v", idx, device)
		}
	}
	return nil
}

func (*DeviceSession) DefaultInputConfig(
	ctx context.Context,
) (types.InputConfig, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return types.InputConfig{}, fmt.Errorf("%w: %w", types.ErrNoInputDevice, err)
	}
	if info.MaxInputChannels < 1 {
		return types.InputConfig{}, fmt.Errorf("%w: device '%s' has no input channels", types.ErrNoInputDevice, info.Name)
	}
	if info.DefaultSampleRate <= 0 {
		return types.InputConfig{}, fmt.Errorf("%w: device '%s' reports sample rate %v", types.ErrDeviceConfig, info.Name, info.DefaultSampleRate)
	}

	// PortAudio converts to the requested sample format itself, so float32
	// is always the native format from our point of view.
	cfg := types.InputConfig{
		SampleRate: types.SampleRate(math.Round(info.DefaultSampleRate)),
		Channels:   types.Channel(min(info.MaxInputChannels, MaxChannels)),
		PCMFormat:  types.PCMFormatFloat32LE,
	}
	logger.Debugf(ctx, "default input device '%s': %s", info.Name, cfg)
	return cfg, nil
}

func (*DeviceSession) OpenInput(
	ctx context.Context,
	cfg types.InputConfig,
	callback types.InputCallback,
) (types.InputStream, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrNoInputDevice, err)
	}

	params := portaudio.LowLatencyParameters(info, nil)
	params.Input.Channels = int(cfg.Channels)
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = portaudio.FramesPerBufferUnspecified

	var stream *portaudio.Stream
	switch cfg.PCMFormat {
	case types.PCMFormatFloat32LE:
		if callback.Float32 == nil {
			return nil, fmt.Errorf("no float32 callback is provided")
		}
		stream, err = portaudio.OpenStream(params, callback.Float32)
	case types.PCMFormatS16LE:
		if callback.Int16 == nil {
			return nil, fmt.Errorf("no int16 callback is provided")
		}
		stream, err = portaudio.OpenStream(params, callback.Int16)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, cfg.PCMFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open the stream: %w", types.ErrStreamStart, err)
	}
	logger.Debugf(ctx, "opened a PortAudio input stream on '%s': %s", info.Name, cfg)

	return &InputStream{
		PortAudioStream: stream,
	}, nil
}
