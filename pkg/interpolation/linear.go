package interpolation

type linear struct{}

// NewLinear returns an Interpolator drawing a straight line between the
// samples adjacent to the gap. A missing side is treated as silence.
func NewLinear() Interpolator {
	return &linear{}
}

func (*linear) Interpolate(before, after []float32, gapLen int) []float32 {
	result := make([]float32, gapLen)
	var v0, v1 float32
	if len(before) > 0 {
		v0 = before[len(before)-1]
	}
	if len(after) > 0 {
		v1 = after[0]
	}
	for i := 0; i < gapLen; i++ {
		t := float32(i+1) / float32(gapLen+1)
		result[i] = (1-t)*v0 + t*v1
	}
	return result
}
