package resampler

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

// TargetSampleRate is the sample rate expected by speech recognizers.
const TargetSampleRate = types.SampleRate(16000)

// Resample converts a whole mono signal from inRate to outRate.
//
// Full chunks are processed in order. The trailing partial chunk is
// zero-padded, and only ceil(remaining*ratio) of its output frames are
// kept, so the output length tracks len(samples)*ratio without
// accumulating chunk-boundary drift.
func Resample(
	ctx context.Context,
	samples []float32,
	inRate types.SampleRate,
	outRate types.SampleRate,
) (_ret []float32, _err error) {
	logger.Tracef(ctx, "Resample: %d samples, %d -> %d", len(samples), inRate, outRate)
	defer func() { logger.Tracef(ctx, "/Resample: %d samples, %v", len(_ret), _err) }()

	r, err := NewFFT(inRate, outRate, ChunkSize, SubChunks)
	if err != nil {
		return nil, err
	}

	chunkIn := r.InputFramesNext()
	expected := r.OutputFramesFor(len(samples))
	out := make([]float32, 0, expected+r.OutputFramesNext())

	pos := 0
	for ; pos+chunkIn <= len(samples); pos += chunkIn {
		out, err = r.Process(out, samples[pos:pos+chunkIn])
		if err != nil {
			return nil, fmt.Errorf("unable to process the chunk at %d: %w", pos, err)
		}
	}

	if remaining := len(samples) - pos; remaining > 0 {
		tail := make([]float32, chunkIn)
		copy(tail, samples[pos:])
		before := len(out)
		out, err = r.Process(out, tail)
		if err != nil {
			return nil, fmt.Errorf("unable to process the tail of %d samples: %w", remaining, err)
		}
		keep := r.OutputFramesFor(remaining)
		out = out[:before+min(keep, len(out)-before)]
	}

	return out, nil
}

// ToTargetRate resamples the mono signal to TargetSampleRate.
// A signal already at the target rate is returned as is.
func ToTargetRate(
	ctx context.Context,
	samples []float32,
	inRate types.SampleRate,
) ([]float32, error) {
	if inRate == TargetSampleRate {
		return samples, nil
	}
	return Resample(ctx, samples, inRate, TargetSampleRate)
}
