package resampler

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

func TestNewFFT(t *testing.T) {
	for _, tc := range []struct {
		inRate  types.SampleRate
		outRate types.SampleRate
		in      int
		out     int
	}{
		{48000, 16000, 1026, 342},
		{44100, 16000, 1764, 640},
		{32000, 16000, 1024, 512},
		{8000, 16000, 1024, 2048},
		{16000, 16000, 1024, 1024},
	} {
		r, err := NewFFT(tc.inRate, tc.outRate, ChunkSize, SubChunks)
		require.NoError(t, err)
		assert.Equal(t, tc.in, r.InputFramesNext(), "%d -> %d", tc.inRate, tc.outRate)
		assert.Equal(t, tc.out, r.OutputFramesNext(), "%d -> %d", tc.inRate, tc.outRate)
	}

	t.Run("InvalidRates", func(t *testing.T) {
		_, err := NewFFT(0, 16000, ChunkSize, SubChunks)
		require.ErrorIs(t, err, ErrConstruction)
		_, err = NewFFT(48000, 16000, 0, SubChunks)
		require.ErrorIs(t, err, ErrConstruction)
	})
}

func TestFFTProcess(t *testing.T) {
	t.Run("WrongInputSize", func(t *testing.T) {
		r, err := NewFFT(48000, 16000, ChunkSize, SubChunks)
		require.NoError(t, err)
		_, err = r.Process(nil, make([]float32, 10))
		require.ErrorIs(t, err, ErrProcessing)
	})

	t.Run("DCIsPreserved", func(t *testing.T) {
		for _, inRate := range []types.SampleRate{48000, 44100, 32000, 8000} {
			r, err := NewFFT(inRate, TargetSampleRate, ChunkSize, SubChunks)
			require.NoError(t, err)

			in := make([]float32, r.InputFramesNext())
			for idx := range in {
				in[idx] = 0.5
			}
			var out []float32
			for range 3 {
				out, err = r.Process(out, in)
				require.NoError(t, err)
			}
			require.Len(t, out, 3*r.OutputFramesNext())

			// skip the filter warm-up
			for idx := r.OutputFramesNext(); idx < len(out); idx++ {
				require.InDelta(t, 0.5, out[idx], 0.001, "rate %d, idx %d", inRate, idx)
			}
		}
	})

	t.Run("Reset", func(t *testing.T) {
		r, err := NewFFT(48000, 16000, ChunkSize, SubChunks)
		require.NoError(t, err)
		in := make([]float32, r.InputFramesNext())
		for idx := range in {
			in[idx] = 1
		}
		_, err = r.Process(nil, in)
		require.NoError(t, err)

		r.Reset()
		out, err := r.Process(nil, make([]float32, r.InputFramesNext()))
		require.NoError(t, err)
		for _, v := range out {
			require.Zero(t, v)
		}
	})
}

func TestLowPassFilter(t *testing.T) {
	filter := lowPassFilter(513, 0.3)
	var sum float64
	for _, v := range filter {
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-9)
	for idx := range filter {
		assert.InDelta(t, filter[idx], filter[len(filter)-1-idx], 1e-12)
	}
}

func TestInverseFFT(t *testing.T) {
	for _, size := range []int{8, 12, 1026} {
		x := make([]complex128, size)
		orig := make([]complex128, size)
		for idx := range x {
			x[idx] = complex(math.Sin(float64(idx)), 0)
			orig[idx] = x[idx]
		}
		spectre, err := forwardFFT(x)
		require.NoError(t, err)
		y, err := inverseFFT(spectre)
		require.NoError(t, err)
		for idx := range y {
			require.InDelta(t, real(orig[idx]), real(y[idx]), 1e-9, "size %d, idx %d", size, idx)
		}
	}
}

func BenchmarkFFTProcess(b *testing.B) {
	for _, inRate := range []types.SampleRate{48000, 44100} {
		r, err := NewFFT(inRate, TargetSampleRate, ChunkSize, SubChunks)
		require.NoError(b, err)
		in := make([]float32, r.InputFramesNext())
		for idx := range in {
			in[idx] = float32(math.Sin(2 * math.Pi * 440 * float64(idx) / float64(inRate)))
		}
		out := make([]float32, 0, r.OutputFramesNext())

		b.Run(fmt.Sprintf("%dHz", inRate), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				out, _ = r.Process(out[:0], in)
			}
		})
	}
}
