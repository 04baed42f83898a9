package portaudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

// PlayPCMStream copies PCM from a reader into a blocking PortAudio output
// stream. The reader fills one buffer while the previous one is written.
type PlayPCMStream struct {
	PortAudioStream *portaudio.Stream
	OutputBuffer    []byte
	InputBuffer     []byte
	Reader          io.Reader
	CancelFunc      context.CancelFunc
	WaitGroup       sync.WaitGroup
	FilledChan      chan int
	ConsumedChan    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func newPlayPCMStream[T any](
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
	bufferSize time.Duration,
) (*PlayPCMStream, error) {
	framesCount := int(bufferSize.Seconds() * float64(sampleRate))

	var sample T
	buf := make([]T, framesCount*int(channels))
	logger.Debugf(ctx, "newPlayPCMStream: %T, %d, %d %s(%d)", sample, sampleRate, channels, bufferSize, framesCount)
	stream, err := portaudio.OpenDefaultStream(0, int(channels), float64(sampleRate), framesCount, &buf)
	if err != nil {
		return nil, err
	}

	ptr := unsafe.SliceData(buf)
	bytesBuf := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(buf)*int(unsafe.Sizeof(sample)))

	return &PlayPCMStream{
		PortAudioStream: stream,
		OutputBuffer:    bytesBuf,
		InputBuffer:     make([]byte, len(bytesBuf)),
		FilledChan:      make(chan int),
		ConsumedChan:    make(chan struct{}),
	}, nil
}

func (s *PlayPCMStream) init(
	ctx context.Context,
	rawReader io.Reader,
) error {
	s.Reader = rawReader
	ctx, s.CancelFunc = context.WithCancel(ctx)

	if err := s.PortAudioStream.Start(); err != nil {
		return fmt.Errorf("unable to start the stream: %w", err)
	}

	s.WaitGroup.Add(1)
	observability.Go(ctx, func() {
		defer s.WaitGroup.Done()
		defer s.CancelFunc()
		err := s.readerLoop(ctx)
		if err != nil {
			logger.Errorf(ctx, "the reader loop failed: %v", err)
		}
	})
	s.WaitGroup.Add(1)
	observability.Go(ctx, func() {
		defer s.WaitGroup.Done()
		err := s.writerLoop(ctx)
		if err != nil {
			logger.Errorf(ctx, "the writer loop failed: %v", err)
		}
	})
	return nil
}

func (s *PlayPCMStream) readerLoop(
	ctx context.Context,
) (_ret error) {
	logger.Debugf(ctx, "readerLoop")
	defer func() { logger.Debugf(ctx, "/readerLoop: %v", _ret) }()
	defer close(s.FilledChan)

	for {
		n, err := io.ReadFull(s.Reader, s.InputBuffer)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			clear(s.InputBuffer[n:])
		case err != nil:
			return fmt.Errorf("unable to read: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case s.FilledChan <- n:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ConsumedChan:
		}

		if n < len(s.InputBuffer) {
			return nil
		}
	}
}

func (s *PlayPCMStream) writerLoop(
	ctx context.Context,
) (_ret error) {
	logger.Debugf(ctx, "writerLoop")
	defer func() { logger.Debugf(ctx, "/writerLoop: %v", _ret) }()

	for n := range s.FilledChan {
		copy(s.OutputBuffer, s.InputBuffer)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s.ConsumedChan <- struct{}{}:
		}

		logger.Tracef(ctx, "Write %d", n)
		if err := s.PortAudioStream.Write(); err != nil {
			return fmt.Errorf("unable to write: %w", err)
		}
	}
	return nil
}

func (s *PlayPCMStream) Close() error {
	s.closeOnce.Do(func() {
		if s.CancelFunc != nil {
			s.CancelFunc()
		}
		s.closeErr = s.PortAudioStream.Abort()
		if err := s.PortAudioStream.Close(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}

// Drain waits until everything read from the reader has been played.
func (s *PlayPCMStream) Drain() error {
	s.WaitGroup.Wait()
	return nil
}
