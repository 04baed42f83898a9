//go:build !fvad
// +build !fvad

package fvad

import (
	"context"
	"time"

	"github.com/xaionaro-go/voicecapture/pkg/audio"
	"github.com/xaionaro-go/voicecapture/pkg/vad"
)

type VAD struct{}

var _ vad.VAD = (*VAD)(nil)

func New(
	mode int,
	sampleRate audio.SampleRate,
	frameDuration time.Duration,
) (*VAD, error) {
	return nil, ErrNotCompiledIn
}

func (*VAD) IsSpeech(context.Context, []int16) (bool, error) {
	return false, ErrNotCompiledIn
}

func (*VAD) FrameSize() int {
	return 0
}

func (*VAD) SampleRate() audio.SampleRate {
	return 0
}

func (*VAD) Close() error {
	return nil
}
