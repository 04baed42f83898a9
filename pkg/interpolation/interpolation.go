package interpolation

// Interpolator synthesizes gapLen samples of a single channel that fit
// between the samples before and after the gap.
type Interpolator interface {
	Interpolate(before, after []float32, gapLen int) []float32
}
