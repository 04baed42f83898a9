// Package audiotest provides a hardware-less audio.DeviceSession.
package audiotest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/xaionaro-go/voicecapture/pkg/audio"
)

// DeviceSession replays preconfigured frames into the input callback.
// Frames are delivered synchronously from InputStream.Start, i.e. on the
// goroutine which owns the stream.
type DeviceSession struct {
	Config        audio.InputConfig
	ConfigErr     error
	OpenErr       error
	StartErr      error
	Float32Frames [][]float32
	Int16Frames   [][]int16

	// BeforeStart (if set) is called on the capture goroutine before the
	// frames are delivered.
	BeforeStart func()

	Sessions       atomic.Int32
	Closed         atomic.Int32
	StreamsOpened  atomic.Int32
	StreamsClosed  atomic.Int32
	StreamsStarted atomic.Int32

	locker sync.Mutex
}

var _ audio.DeviceSession = (*sessionHandle)(nil)

// Opener returns an audio.DeviceSessionOpener yielding handles of this fake.
func (d *DeviceSession) Opener() audio.DeviceSessionOpener {
	return func(ctx context.Context) (audio.DeviceSession, error) {
		if d.OpenErr != nil {
			return nil, d.OpenErr
		}
		d.Sessions.Add(1)
		return &sessionHandle{DeviceSession: d}, nil
	}
}

// Released reports whether every opened session and stream was closed.
func (d *DeviceSession) Released() bool {
	return d.Sessions.Load() == d.Closed.Load() && d.StreamsOpened.Load() == d.StreamsClosed.Load()
}

type sessionHandle struct {
	*DeviceSession
	closeOnce sync.Once
}

func (h *sessionHandle) Close() error {
	h.closeOnce.Do(func() {
		h.Closed.Add(1)
	})
	return nil
}

func (h *sessionHandle) Ping(context.Context) error {
	return h.ConfigErr
}

func (h *sessionHandle) DefaultInputConfig(context.Context) (audio.InputConfig, error) {
	if h.ConfigErr != nil {
		return audio.InputConfig{}, h.ConfigErr
	}
	return h.Config, nil
}

func (h *sessionHandle) OpenInput(
	_ context.Context,
	cfg audio.InputConfig,
	callback audio.InputCallback,
) (audio.InputStream, error) {
	switch cfg.PCMFormat {
	case audio.PCMFormatFloat32LE, audio.PCMFormatS16LE:
	default:
		return nil, audio.ErrUnsupportedSampleFormat
	}
	h.StreamsOpened.Add(1)
	return &InputStream{
		session:  h.DeviceSession,
		format:   cfg.PCMFormat,
		callback: callback,
	}, nil
}

type InputStream struct {
	session  *DeviceSession
	format   audio.PCMFormat
	callback audio.InputCallback
	closed   bool
}

func (s *InputStream) Start() error {
	if s.session.StartErr != nil {
		return s.session.StartErr
	}
	s.session.StreamsStarted.Add(1)
	if s.session.BeforeStart != nil {
		s.session.BeforeStart()
	}

	s.session.locker.Lock()
	defer s.session.locker.Unlock()
	switch s.format {
	case audio.PCMFormatFloat32LE:
		for _, frame := range s.session.Float32Frames {
			s.callback.Float32(frame)
		}
	case audio.PCMFormatS16LE:
		for _, frame := range s.session.Int16Frames {
			s.callback.Int16(frame)
		}
	}
	return nil
}

func (s *InputStream) Close() error {
	if !s.closed {
		s.closed = true
		s.session.StreamsClosed.Add(1)
	}
	return nil
}

// ConstantFrames returns blocks of frames with every sample equal to v.
func ConstantFrames(v float32, blocks, blockSize int) [][]float32 {
	frames := make([][]float32, blocks)
	for idx := range frames {
		frame := make([]float32, blockSize)
		for sampleIdx := range frame {
			frame[sampleIdx] = v
		}
		frames[idx] = frame
	}
	return frames
}
