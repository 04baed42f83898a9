package pulseaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type DeviceSession struct {
	PulseClient *pulse.Client
	closeOnce   sync.Once
}

var _ types.DeviceSession = (*DeviceSession)(nil)

func NewDeviceSession() (*DeviceSession, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("voicecapture"))
	if err != nil {
		return nil, fmt.Errorf("unable to open a client to Pulse: %w", err)
	}
	return &DeviceSession{
		PulseClient: c,
	}, nil
}

func (s *DeviceSession) Close() error {
	s.closeOnce.Do(func() {
		s.PulseClient.Close()
	})
	return nil
}

func (s *DeviceSession) Ping(ctx context.Context) error {
	src, err := s.PulseClient.DefaultSource()
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "default source: '%s' (%s)", src.Name(), src.ID())
	return nil
}

func (s *DeviceSession) DefaultInputConfig(
	ctx context.Context,
) (types.InputConfig, error) {
	src, err := s.PulseClient.DefaultSource()
	if err != nil {
		return types.InputConfig{}, fmt.Errorf("%w: %w", types.ErrNoInputDevice, err)
	}
	cfg, err := inputConfigFromSource(src.Name(), src.SampleRate(), len(src.Channels()))
	if err != nil {
		return types.InputConfig{}, err
	}
	logger.Debugf(ctx, "default source '%s': %s", src.Name(), cfg)
	return cfg, nil
}

// inputConfigFromSource maps the format of a source to the format we
// record it with. The server converts to whatever the client asks for,
// so we always request float32 and at most a stereo channel map.
func inputConfigFromSource(
	name string,
	sampleRate int,
	channels int,
) (types.InputConfig, error) {
	if sampleRate <= 0 || channels <= 0 {
		return types.InputConfig{}, fmt.Errorf(
			"%w: source '%s' reports %dHz and %d channels",
			types.ErrDeviceConfig, name, sampleRate, channels,
		)
	}
	return types.InputConfig{
		SampleRate: types.SampleRate(sampleRate),
		Channels:   types.Channel(min(channels, 2)),
		PCMFormat:  types.PCMFormatFloat32LE,
	}, nil
}

func (s *DeviceSession) OpenInput(
	ctx context.Context,
	cfg types.InputConfig,
	callback types.InputCallback,
) (_ types.InputStream, _err error) {
	logger.Debugf(ctx, "OpenInput: %s", cfg)
	defer func() { logger.Debugf(ctx, "/OpenInput: %v", _err) }()

	src, err := s.PulseClient.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrNoInputDevice, err)
	}

	var chanMap proto.ChannelMap
	switch cfg.Channels {
	case 1:
		chanMap = proto.ChannelMap{proto.ChannelMono}
	case 2:
		chanMap = proto.ChannelMap{proto.ChannelLeft, proto.ChannelRight}
	default:
		return nil, fmt.Errorf("%w: do not know how to configure %d channels", types.ErrDeviceConfig, cfg.Channels)
	}

	var writer pulse.Writer
	switch cfg.PCMFormat {
	case types.PCMFormatFloat32LE:
		if callback.Float32 == nil {
			return nil, fmt.Errorf("no float32 callback is provided")
		}
		writer = pulse.Float32Writer(func(samples []float32) (int, error) {
			callback.Float32(samples)
			return len(samples), nil
		})
	case types.PCMFormatS16LE:
		if callback.Int16 == nil {
			return nil, fmt.Errorf("no int16 callback is provided")
		}
		writer = pulse.Int16Writer(func(samples []int16) (int, error) {
			callback.Int16(samples)
			return len(samples), nil
		})
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, cfg.PCMFormat)
	}

	stream, err := s.PulseClient.NewRecord(
		writer,
		pulse.RecordSource(src),
		pulse.RecordSampleRate(int(cfg.SampleRate)),
		pulse.RecordChannels(chanMap),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to initialize a record stream: %w", types.ErrStreamStart, err)
	}

	return newInputStream(stream), nil
}
