package malgo

import (
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type InputStream struct {
	Device *malgo.Device
}

var _ types.InputStream = (*InputStream)(nil)

func (s *InputStream) Start() error {
	if err := s.Device.Start(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStreamStart, err)
	}
	return nil
}

// Close stops the device (if started) and releases it.
func (s *InputStream) Close() error {
	var err error
	if s.Device.IsStarted() {
		err = s.Device.Stop()
	}
	s.Device.Uninit()
	return err
}
