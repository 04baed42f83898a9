package fourier

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func sine(freq, sampleRate float64, offset, length int) []float32 {
	samples := make([]float32, length)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i+offset) / sampleRate))
	}
	return samples
}

func TestInterpolate_NoClicks(t *testing.T) {
	freq := 440.0
	sampleRate := 44100.0
	size := 441 // 10ms gap

	before := sine(freq, sampleRate, 0, 2048)
	after := sine(freq, sampleRate, len(before)+size, 2048)

	interpolated := New().Interpolate(before, after, size)
	require.Equal(t, size, len(interpolated))

	// typical difference between neighbouring samples
	var maxDiff float64
	for i := 1; i < len(before); i++ {
		maxDiff = max(maxDiff, math.Abs(float64(before[i]-before[i-1])))
	}

	d1 := math.Abs(float64(interpolated[0] - before[len(before)-1]))
	require.LessOrEqual(t, d1, maxDiff*1.5, "value jump too large at the before boundary")

	d2 := math.Abs(float64(after[0] - interpolated[len(interpolated)-1]))
	require.LessOrEqual(t, d2, maxDiff*1.5, "value jump too large at the after boundary")

	for i := 1; i < len(interpolated); i++ {
		d := math.Abs(float64(interpolated[i] - interpolated[i-1]))
		require.LessOrEqual(t, d, maxDiff*3.0, "click detected within the interpolated part at index %d", i)
	}
}

func maxError(t *testing.T, expected, actual []float32) float64 {
	require.Equal(t, len(expected), len(actual))
	var result float64
	for i := range expected {
		result = max(result, math.Abs(float64(expected[i]-actual[i])))
	}
	return result
}

func TestInterpolate_Accuracy(t *testing.T) {
	sampleRate := 48000.0
	gapLen := 480

	t.Run("OffBinTone", func(t *testing.T) {
		signal := sine(440, sampleRate, 0, 2048+gapLen+2048)
		for i := range signal {
			signal[i] *= 0.5
		}
		interpolated := New().Interpolate(signal[:2048], signal[2048+gapLen:], gapLen)
		require.Less(t, maxError(t, signal[2048:2048+gapLen], interpolated), 0.05)
	})

	t.Run("TwoTones", func(t *testing.T) {
		signal := make([]float32, 2048+gapLen+2048)
		for i := range signal {
			x := float64(i) / sampleRate
			signal[i] = float32(0.3*math.Sin(2*math.Pi*440*x) + 0.2*math.Sin(2*math.Pi*1234*x+1))
		}
		interpolated := New().Interpolate(signal[:2048], signal[2048+gapLen:], gapLen)
		require.Less(t, maxError(t, signal[2048:2048+gapLen], interpolated), 0.05)
	})

	t.Run("Constant", func(t *testing.T) {
		before := []float32{0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25}
		for _, v := range New().Interpolate(before, before, 100) {
			require.InDelta(t, 0.25, v, 1e-6)
		}
	})
}

func TestInterpolate_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noise := func(length int) []float32 {
		samples := make([]float32, length)
		for i := range samples {
			samples[i] = rng.Float32() - 0.5
		}
		return samples
	}
	for range 5 {
		for _, v := range New().Interpolate(noise(2048), noise(2048), 480) {
			require.LessOrEqual(t, math.Abs(float64(v)), 0.5)
		}
	}
}

func TestInterpolate_ShortContext(t *testing.T) {
	r := New().Interpolate([]float32{0.5}, []float32{0.5, 0.5, 0.5, 0.5}, 3)
	require.Len(t, r, 3)
	for _, v := range r {
		require.InDelta(t, 0.5, v, 1e-6)
	}
	require.Empty(t, New().Interpolate([]float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}, 0))
}

func BenchmarkInterpolate(b *testing.B) {
	sampleRate := 48000.0
	freq := 440.0
	before := sine(freq, sampleRate, 0, 2048)

	durations := []struct {
		name string
		ms   int
	}{
		{"10ms", 10},
		{"100ms", 100},
	}

	interpolator := New()

	for _, d := range durations {
		gapLen := int(float64(d.ms) * sampleRate / 1000.0)
		after := sine(freq, sampleRate, len(before)+gapLen, 2048)

		b.Run(d.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = interpolator.Interpolate(before, after, gapLen)
			}
		})
	}
}
