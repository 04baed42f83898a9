package pulseaudio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

var ErrPlaybackUnderflow = errors.New("the playback buffer ran dry")

// PlayStream does not own the client: it belongs to PlayerPCM.
type PlayStream struct {
	Playback  *pulse.PlaybackStream
	closeOnce sync.Once
	closeErr  error
}

var _ types.PlayStream = (*PlayStream)(nil)

func newPlayStream(playback *pulse.PlaybackStream) *PlayStream {
	return &PlayStream{
		Playback: playback,
	}
}

func (s *PlayStream) Drain() error {
	s.Playback.Drain()
	return playbackResult(s.Playback.Error(), s.Playback.Underflow())
}

func playbackResult(streamErr error, underflow bool) error {
	switch {
	case streamErr != nil:
		return fmt.Errorf("the playback failed: %w", streamErr)
	case underflow:
		return ErrPlaybackUnderflow
	default:
		return nil
	}
}

// Close stops the stream. pulse panics on a stream whose client is
// already closed, that is reported as an error.
func (s *PlayStream) Close() error {
	s.closeOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				s.closeErr = fmt.Errorf("unable to close the playback: %v", r)
			}
		}()
		s.Playback.Stop()
		s.Playback.Close()
	})
	return s.closeErr
}
