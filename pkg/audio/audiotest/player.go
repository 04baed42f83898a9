package audiotest

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/xaionaro-go/voicecapture/pkg/audio"
)

// PlayerPCM consumes the played PCM into memory.
type PlayerPCM struct {
	PingErr error

	locker     sync.Mutex
	SampleRate audio.SampleRate
	Channels   audio.Channel
	PCMFormat  audio.PCMFormat
	BufferSize time.Duration
	Played     []byte
	Closed     bool
}

var _ audio.PlayerPCM = (*PlayerPCM)(nil)

func (p *PlayerPCM) Ping(context.Context) error {
	return p.PingErr
}

func (p *PlayerPCM) PlayPCM(
	_ context.Context,
	sampleRate audio.SampleRate,
	channels audio.Channel,
	format audio.PCMFormat,
	bufferSize time.Duration,
	reader io.Reader,
) (audio.PlayStream, error) {
	p.locker.Lock()
	defer p.locker.Unlock()
	p.SampleRate, p.Channels, p.PCMFormat, p.BufferSize = sampleRate, channels, format, bufferSize
	return &playStream{player: p, reader: reader}, nil
}

func (p *PlayerPCM) Close() error {
	p.locker.Lock()
	defer p.locker.Unlock()
	p.Closed = true
	return nil
}

type playStream struct {
	player *PlayerPCM
	reader io.Reader
}

func (s *playStream) Drain() error {
	b, err := io.ReadAll(s.reader)
	if err != nil {
		return fmt.Errorf("unable to read: %w", err)
	}
	s.player.locker.Lock()
	defer s.player.locker.Unlock()
	s.player.Played = append(s.player.Played, b...)
	return nil
}

func (s *playStream) Close() error {
	return nil
}

// PlayerFactory always returns Player.
type PlayerFactory struct {
	Player *PlayerPCM
}

func (f PlayerFactory) NewPlayerPCM() (audio.PlayerPCM, error) {
	return f.Player, nil
}

// DeviceSessionFactory returns handles of Session.
type DeviceSessionFactory struct {
	Session *DeviceSession
}

func (f DeviceSessionFactory) NewDeviceSession() (audio.DeviceSession, error) {
	return f.Session.Opener()(context.Background())
}
