package portaudio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type InputStream struct {
	PortAudioStream *portaudio.Stream
	started         bool
}

var _ types.InputStream = (*InputStream)(nil)

func (s *InputStream) Start() error {
	if err := s.PortAudioStream.Start(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStreamStart, err)
	}
	s.started = true
	return nil
}

func (s *InputStream) Close() error {
	var mErr *multierror.Error
	if s.started {
		if err := s.PortAudioStream.Stop(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to stop the stream: %w", err))
		}
		s.started = false
	}
	if err := s.PortAudioStream.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to close the stream: %w", err))
	}
	return mErr.ErrorOrNil()
}
