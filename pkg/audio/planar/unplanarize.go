package planar

import (
	"fmt"
)

// Unplanarize interleaves per-channel slices of equal length.
func Unplanarize[T any](planes [][]T) ([]T, error) {
	if len(planes) == 0 {
		return nil, nil
	}
	samplesPerChan := len(planes[0])
	for ch, plane := range planes {
		if len(plane) != samplesPerChan {
			return nil, fmt.Errorf("the lengths of channels 0 and %d are not equal: %d != %d", ch, samplesPerChan, len(plane))
		}
	}

	channels := len(planes)
	interleaved := make([]T, samplesPerChan*channels)
	for ch, plane := range planes {
		for samplePos, v := range plane {
			interleaved[samplePos*channels+ch] = v
		}
	}
	return interleaved, nil
}
