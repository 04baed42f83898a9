package pulseaudio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type PlayerPCM struct {
	PulseClient *pulse.Client
	closeOnce   sync.Once
}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() (*PlayerPCM, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("voicecapture"))
	if err != nil {
		return nil, fmt.Errorf("unable to open a client to Pulse: %w", err)
	}
	return &PlayerPCM{
		PulseClient: c,
	}, nil
}

func (p *PlayerPCM) Close() error {
	p.closeOnce.Do(func() {
		p.PulseClient.Close()
	})
	return nil
}

func (p *PlayerPCM) Ping(context.Context) error {
	_, err := p.PulseClient.DefaultSink()
	return err
}

func (p *PlayerPCM) PlayPCM(
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
	format types.PCMFormat,
	bufferSize time.Duration,
	rawReader io.Reader,
) (_ types.PlayStream, _err error) {
	logger.Debugf(ctx, "PlayPCM: %d, %d, %s, %v", sampleRate, channels, format, bufferSize)
	defer func() { logger.Debugf(ctx, "/PlayPCM: %v", _err) }()

	pulseFormat, err := pulseFormatFor(format)
	if err != nil {
		return nil, err
	}
	chanMap, err := channelMapFor(channels)
	if err != nil {
		return nil, err
	}
	reader := &pulseReader{
		pulseFormat: pulseFormat,
		Reader:      rawReader,
	}

	stream, err := p.PulseClient.NewPlayback(
		reader,
		pulse.PlaybackLatency(bufferSize.Seconds()),
		pulse.PlaybackSampleRate(int(sampleRate)),
		pulse.PlaybackChannels(chanMap),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a playback: %w", err)
	}

	stream.Start()
	if stream.Error() != nil {
		stream.Close()
		return nil, fmt.Errorf("an error occurred during playback: %w", stream.Error())
	}

	return newPlayStream(stream), nil
}

type pulseReader struct {
	pulseFormat byte
	io.Reader
}

func pulseFormatFor(pcmFormat types.PCMFormat) (byte, error) {
	switch pcmFormat {
	case types.PCMFormatU8:
		return proto.FormatUint8, nil
	case types.PCMFormatS16LE:
		return proto.FormatInt16LE, nil
	case types.PCMFormatS32LE:
		return proto.FormatInt32LE, nil
	case types.PCMFormatFloat32LE:
		return proto.FormatFloat32LE, nil
	default:
		return 0, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, pcmFormat)
	}
}

func channelMapFor(channels types.Channel) (proto.ChannelMap, error) {
	switch channels {
	case 1:
		return proto.ChannelMap{proto.ChannelMono}, nil
	case 2:
		return proto.ChannelMap{proto.ChannelLeft, proto.ChannelRight}, nil
	default:
		return nil, fmt.Errorf("unable to map %d channels to a Pulse channel map", channels)
	}
}

var _ pulse.Reader = (*pulseReader)(nil)

func (r pulseReader) Format() byte {
	return r.pulseFormat
}
