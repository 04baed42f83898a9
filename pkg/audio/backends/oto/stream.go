package oto

import (
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const drainPollInterval = 10 * time.Millisecond

type Stream struct {
	Player *oto.Player
}

var _ types.PlayStream = (*Stream)(nil)

func newStream(player *oto.Player) *Stream {
	return &Stream{
		Player: player,
	}
}

func (s *Stream) Drain() error {
	for s.Player.IsPlaying() {
		time.Sleep(drainPollInterval)
	}
	return s.Player.Err()
}

func (s *Stream) Close() error {
	return s.Player.Close()
}
