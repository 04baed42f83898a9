package planar

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

// Channel extracts a single channel from interleaved frames; a trailing
// incomplete frame is ignored.
func Channel[T any](
	channels types.Channel,
	channel int,
	interleaved []T,
) []T {
	samplesPerChan := len(interleaved) / int(channels)
	plane := make([]T, samplesPerChan)
	for samplePos := range plane {
		plane[samplePos] = interleaved[samplePos*int(channels)+channel]
	}
	return plane
}
