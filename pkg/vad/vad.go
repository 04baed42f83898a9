package vad

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
	"github.com/xaionaro-go/voicecapture/pkg/wavfile"
)

// VAD is a frame-based voice activity detector working on mono 16-bit PCM.
type VAD interface {
	// IsSpeech classifies exactly FrameSize() samples.
	IsSpeech(ctx context.Context, frame []int16) (bool, error)
	FrameSize() int
	SampleRate() audio.SampleRate
}

// FindVoice returns the range [start, end) spanning from the first to the last
// frame classified as speech. If there is no speech, start is -1.
// A trailing incomplete frame is not classified.
func FindVoice(
	ctx context.Context,
	v VAD,
	samples []int16,
) (start int, end int, _err error) {
	start = -1
	frameSize := v.FrameSize()
	for pos := 0; pos+frameSize <= len(samples); pos += frameSize {
		isSpeech, err := v.IsSpeech(ctx, samples[pos:pos+frameSize])
		if err != nil {
			return -1, -1, fmt.Errorf("unable to classify the frame at %d: %w", pos, err)
		}
		if !isSpeech {
			continue
		}
		if start < 0 {
			start = pos
		}
		end = pos + frameSize
	}
	return start, end, nil
}

// Trim removes leading and trailing non-speech, keeping margin of audio
// around the speech. Samples without any speech are returned as is.
func Trim(
	ctx context.Context,
	v VAD,
	samples []float32,
	margin time.Duration,
) ([]float32, error) {
	pcm := make([]int16, len(samples))
	for idx, sample := range samples {
		pcm[idx] = wavfile.Quantize(sample)
	}

	start, end, err := FindVoice(ctx, v, pcm)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		logger.Debugf(ctx, "no speech found in %d samples, keeping them untrimmed", len(samples))
		return samples, nil
	}

	marginSamples := int(margin.Seconds() * float64(v.SampleRate()))
	from := max(0, start-marginSamples)
	to := min(len(samples), end+marginSamples)
	logger.Debugf(ctx, "speech is at [%d:%d], trimming to [%d:%d] of %d", start, end, from, to, len(samples))
	return samples[from:to], nil
}
