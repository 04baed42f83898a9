package capture

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/xaionaro-go/voicecapture/pkg/audio"
)

// ReserveSeconds is how much audio the buffer preallocates on Reset.
const ReserveSeconds = 60

var ErrLockPoisoned = errors.New("the audio session was left in an inconsistent state by a panic")

// Gap marks samples the hardware delivered but which were dropped
// because the session was locked at that moment.
type Gap struct {
	// Offset is the position (in interleaved samples) where the dropped
	// samples belonged.
	Offset int
	Length int
}

// Capture is everything recorded by a session.
type Capture struct {
	Samples        []float32
	SampleRate     audio.SampleRate
	Channels       audio.Channel
	Gaps           []Gap
	DroppedSamples uint64
}

// AudioSession accumulates interleaved float samples pushed from the
// platform audio thread. Appends never block: if the session is locked
// the block is dropped and accounted as a gap.
type AudioSession struct {
	locker     sync.Mutex
	samples    []float32
	sampleRate audio.SampleRate
	channels   audio.Channel
	gaps       []Gap
	poisoned   bool

	droppedPending atomic.Uint64
	droppedTotal   atomic.Uint64
}

func NewAudioSession() *AudioSession {
	return &AudioSession{}
}

// Reset drops all the samples and stores the new native format.
func (s *AudioSession) Reset(cfg audio.InputConfig) {
	s.locker.Lock()
	defer s.locker.Unlock()

	reserve := int(cfg.SampleRate) * ReserveSeconds
	if cap(s.samples) < reserve {
		s.samples = make([]float32, 0, reserve)
	} else {
		s.samples = s.samples[:0]
	}
	s.sampleRate = cfg.SampleRate
	s.channels = cfg.Channels
	s.gaps = nil
	s.poisoned = false
	s.droppedPending.Store(0)
	s.droppedTotal.Store(0)
}

// SetFormat overwrites the native format without touching the samples.
func (s *AudioSession) SetFormat(cfg audio.InputConfig) {
	s.locker.Lock()
	defer s.locker.Unlock()
	s.sampleRate = cfg.SampleRate
	s.channels = cfg.Channels
}

func (s *AudioSession) Format() (audio.SampleRate, audio.Channel) {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.sampleRate, s.channels
}

// Callback returns the InputCallback feeding this session.
func (s *AudioSession) Callback() audio.InputCallback {
	return audio.InputCallback{
		Float32: s.AppendFloat32,
		Int16:   s.AppendInt16,
	}
}

func (s *AudioSession) AppendFloat32(samples []float32) {
	if !s.tryLock(len(samples)) {
		return
	}
	defer s.unlock()
	s.samples = append(s.samples, samples...)
}

func (s *AudioSession) AppendInt16(samples []int16) {
	if !s.tryLock(len(samples)) {
		return
	}
	defer s.unlock()
	for _, v := range samples {
		s.samples = append(s.samples, float32(v)/math.MaxInt16)
	}
}

func (s *AudioSession) tryLock(incoming int) bool {
	if !s.locker.TryLock() {
		s.droppedPending.Add(uint64(incoming))
		s.droppedTotal.Add(uint64(incoming))
		return false
	}
	if dropped := s.droppedPending.Swap(0); dropped > 0 {
		s.gaps = append(s.gaps, Gap{Offset: len(s.samples), Length: int(dropped)})
	}
	return true
}

// unlock must be deferred right after a successful tryLock.
func (s *AudioSession) unlock() {
	if r := recover(); r != nil {
		s.poisoned = true
	}
	s.locker.Unlock()
}

// DroppedSamples is the amount of samples dropped since the last Reset.
func (s *AudioSession) DroppedSamples() uint64 {
	return s.droppedTotal.Load()
}

// Drain takes the accumulated samples out of the session.
func (s *AudioSession) Drain() (Capture, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	if s.poisoned {
		s.poisoned = false
		s.samples = nil
		s.gaps = nil
		return Capture{}, ErrLockPoisoned
	}

	if dropped := s.droppedPending.Swap(0); dropped > 0 {
		s.gaps = append(s.gaps, Gap{Offset: len(s.samples), Length: int(dropped)})
	}

	c := Capture{
		Samples:        s.samples,
		SampleRate:     s.sampleRate,
		Channels:       s.channels,
		Gaps:           s.gaps,
		DroppedSamples: s.droppedTotal.Load(),
	}
	s.samples = nil
	s.gaps = nil
	return c, nil
}
