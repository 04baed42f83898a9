package resampler

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

// Downmix averages every interleaved frame into a single sample.
// A trailing incomplete frame is averaged over the samples it has.
func Downmix(
	samples []float32,
	channels types.Channel,
) []float32 {
	if channels <= 1 {
		return samples
	}

	n := int(channels)
	mono := make([]float32, 0, (len(samples)+n-1)/n)
	for pos := 0; pos < len(samples); pos += n {
		frame := samples[pos:min(pos+n, len(samples))]
		var sum float32
		for _, v := range frame {
			sum += v
		}
		mono = append(mono, sum/float32(len(frame)))
	}
	return mono
}
