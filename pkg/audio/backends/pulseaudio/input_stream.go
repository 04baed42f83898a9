package pulseaudio

import (
	"fmt"

	"github.com/jfreymuth/pulse"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type InputStream struct {
	*pulse.RecordStream
}

var _ types.InputStream = (*InputStream)(nil)

func newInputStream(
	pulseStream *pulse.RecordStream,
) *InputStream {
	return &InputStream{
		RecordStream: pulseStream,
	}
}

func (stream *InputStream) Start() error {
	stream.RecordStream.Start()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStreamStart, err)
	}
	return nil
}

func (stream *InputStream) Close() (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("got a panic: %v", r)
		}
	}()
	if stream.Running() {
		stream.RecordStream.Stop()
	}
	stream.RecordStream.Close()
	return stream.Error()
}
