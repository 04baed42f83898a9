//go:build fvad
// +build fvad

package fvad

import (
	"context"
	"fmt"
	"time"

	"github.com/josharian/fvad"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
	"github.com/xaionaro-go/voicecapture/pkg/vad"
)

// VAD wraps the WebRTC voice activity detector.
type VAD struct {
	Detector   *fvad.Detector
	sampleRate audio.SampleRate
	frameSize  int
}

var _ vad.VAD = (*VAD)(nil)

// New returns a detector with the given aggressiveness mode (0..3).
// WebRTC VAD supports 8, 16, 32 and 48 kHz and 10, 20 or 30 ms frames.
func New(
	mode int,
	sampleRate audio.SampleRate,
	frameDuration time.Duration,
) (*VAD, error) {
	switch frameDuration {
	case 10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond:
	default:
		return nil, fmt.Errorf("unsupported frame duration %v, expected 10ms, 20ms or 30ms", frameDuration)
	}

	detector := fvad.NewDetector()
	if err := detector.SetMode(mode); err != nil {
		detector.Close()
		return nil, fmt.Errorf("unable to set mode %d: %w", mode, err)
	}
	if err := detector.SetSampleRate(int(sampleRate)); err != nil {
		detector.Close()
		return nil, fmt.Errorf("unable to set sample rate %d: %w", sampleRate, err)
	}

	return &VAD{
		Detector:   detector,
		sampleRate: sampleRate,
		frameSize:  int(frameDuration.Seconds() * float64(sampleRate)),
	}, nil
}

func (v *VAD) IsSpeech(
	_ context.Context,
	frame []int16,
) (bool, error) {
	return v.Detector.Process(frame)
}

func (v *VAD) FrameSize() int {
	return v.frameSize
}

func (v *VAD) SampleRate() audio.SampleRate {
	return v.sampleRate
}

func (v *VAD) Close() error {
	v.Detector.Close()
	return nil
}
