package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
	"github.com/xaionaro-go/voicecapture/pkg/wavfile"
)

const BufferSize = 100 * time.Millisecond

type Player struct {
	PlayerPCM
}

func NewPlayer(playerPCM PlayerPCM) *Player {
	return &Player{
		PlayerPCM: playerPCM,
	}
}

var (
	lastSuccessfulPlayerFactory       registry.PlayerPCMFactory
	lastSuccessfulPlayerFactoryLocker sync.Mutex
)

func getLastSuccessfulPlayerFactory() registry.PlayerPCMFactory {
	lastSuccessfulPlayerFactoryLocker.Lock()
	defer lastSuccessfulPlayerFactoryLocker.Unlock()
	return lastSuccessfulPlayerFactory
}

func NewPlayerAuto(
	ctx context.Context,
) (*Player, error) {
	if factory := getLastSuccessfulPlayerFactory(); factory != nil {
		player, err := factory.NewPlayerPCM()
		if err == nil {
			if err := player.Ping(ctx); err == nil {
				return NewPlayer(player), nil
			}
			player.Close()
		}
	}

	var mErr *multierror.Error
	for _, factory := range registry.PlayerFactories() {
		player, err := factory.NewPlayerPCM()
		logger.Debugf(ctx, "initializing player %T result is %v", factory, err)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to initialize %T: %w", factory, err))
			continue
		}

		err = player.Ping(ctx)
		logger.Debugf(ctx, "pinging PCM player %T result is %v", player, err)
		if err != nil {
			player.Close()
			mErr = multierror.Append(mErr, fmt.Errorf("unable to ping %T: %w", player, err))
			continue
		}

		lastSuccessfulPlayerFactoryLocker.Lock()
		lastSuccessfulPlayerFactory = factory
		lastSuccessfulPlayerFactoryLocker.Unlock()
		return NewPlayer(player), nil
	}

	if mErr == nil {
		return nil, fmt.Errorf("no audio players are compiled in")
	}
	return nil, fmt.Errorf("was unable to initialize any PCM player: %w", mErr.ErrorOrNil())
}

// PlayWAV plays a 16-bit PCM WAV file, e.g. a recording artifact.
func (a *Player) PlayWAV(
	ctx context.Context,
	path string,
) (PlayStream, error) {
	info, samples, err := wavfile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", path, err)
	}
	logger.Debugf(ctx, "WAV '%s': %dHz, %dch, %d samples", path, info.SampleRate, info.Channels, len(samples))

	pcm := make([]byte, len(samples)*2)
	for idx, sample := range samples {
		binary.LittleEndian.PutUint16(pcm[idx*2:], uint16(sample))
	}

	stream, err := a.PlayerPCM.PlayPCM(
		ctx,
		SampleRate(info.SampleRate),
		Channel(info.Channels),
		PCMFormatS16LE,
		BufferSize,
		bytes.NewReader(pcm),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to playback as PCM: %w", err)
	}
	return stream, nil
}

func (a *Player) PlayPCM(
	ctx context.Context,
	sampleRate SampleRate,
	channels Channel,
	pcmFormat PCMFormat,
	bufferSize time.Duration,
	pcmReader io.Reader,
) (PlayStream, error) {
	return a.PlayerPCM.PlayPCM(
		ctx,
		sampleRate,
		channels,
		pcmFormat,
		bufferSize,
		pcmReader,
	)
}
