package capture

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/voicecapture/pkg/audio/planar"
	"github.com/xaionaro-go/voicecapture/pkg/interpolation"
)

// ConcealWindow is the amount of frames on each side of a gap passed to
// the interpolator.
const ConcealWindow = 2048

// ConcealGaps returns the samples with every gap filled by interpolated
// frames (per channel), so the recording keeps its original timing.
func ConcealGaps(
	ctx context.Context,
	c Capture,
	interpolator interpolation.Interpolator,
) []float32 {
	if len(c.Gaps) == 0 || c.Channels == 0 {
		return c.Samples
	}
	channels := int(c.Channels)

	var total int
	for _, gap := range c.Gaps {
		total += gap.Length
	}
	out := make([]float32, 0, len(c.Samples)+total)

	prev := 0
	for gapIdx, gap := range c.Gaps {
		out = append(out, c.Samples[prev:gap.Offset]...)
		prev = gap.Offset

		frames := gap.Length / channels
		if frames == 0 {
			continue
		}

		next := len(c.Samples)
		if gapIdx+1 < len(c.Gaps) {
			next = c.Gaps[gapIdx+1].Offset
		}
		before := c.Samples[max(0, gap.Offset-ConcealWindow*channels):gap.Offset]
		after := c.Samples[gap.Offset:min(next, gap.Offset+ConcealWindow*channels)]

		planes := make([][]float32, channels)
		for ch := range planes {
			planes[ch] = interpolator.Interpolate(
				planar.Channel(c.Channels, ch, before),
				planar.Channel(c.Channels, ch, after),
				frames,
			)
		}
		fill, err := planar.Unplanarize(planes)
		if err != nil {
			logger.Errorf(ctx, "unable to interleave the concealment of the gap at %d: %v", gap.Offset, err)
			fill = make([]float32, frames*channels)
		}
		out = append(out, fill...)
	}
	return append(out, c.Samples[prev:]...)
}
