package resampler

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

func TestResample(t *testing.T) {
	ctx := context.Background()

	t.Run("SameRateIsIdentity", func(t *testing.T) {
		in := []float32{0.1, -0.2, 0.3, 1.5, -7}
		out, err := ToTargetRate(ctx, in, TargetSampleRate)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("ExactLength48k", func(t *testing.T) {
		out, err := ToTargetRate(ctx, make([]float32, 48000), 48000)
		require.NoError(t, err)
		require.Len(t, out, 16000)
		for idx, v := range out {
			require.InDelta(t, 0, v, 1e-6, "idx %d", idx)
		}
	})

	t.Run("LengthIsBounded", func(t *testing.T) {
		for _, inRate := range []types.SampleRate{8000, 22050, 32000, 44100, 48000, 96000} {
			for _, length := range []int{1, 100, 1025, 1026, 4000, 12345} {
				out, err := Resample(ctx, make([]float32, length), inRate, TargetSampleRate)
				require.NoError(t, err)
				expected := float64(length) * float64(TargetSampleRate) / float64(inRate)
				assert.LessOrEqual(t, math.Abs(float64(len(out))-expected), float64(ChunkSize), "rate %d, length %d", inRate, length)
				assert.Equal(t, (length*int(TargetSampleRate)+int(inRate)-1)/int(inRate), len(out), "rate %d, length %d", inRate, length)
			}
		}
	})

	t.Run("Empty", func(t *testing.T) {
		out, err := Resample(ctx, nil, 48000, TargetSampleRate)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("Sine", func(t *testing.T) {
		const freq = 440
		in := make([]float32, 48000)
		for idx := range in {
			in[idx] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(idx)/48000))
		}
		out, err := ToTargetRate(ctx, in, 48000)
		require.NoError(t, err)
		require.Len(t, out, 16000)

		var maxAbs float64
		for _, v := range out[1000:15000] {
			maxAbs = max(maxAbs, math.Abs(float64(v)))
		}
		assert.InDelta(t, 0.5, maxAbs, 0.01)
	})

	t.Run("InvalidRate", func(t *testing.T) {
		_, err := Resample(ctx, make([]float32, 10), 0, TargetSampleRate)
		require.ErrorIs(t, err, ErrConstruction)
	})
}

func BenchmarkResample(b *testing.B) {
	ctx := context.Background()
	in := make([]float32, 48000*10)
	for idx := range in {
		in[idx] = float32(math.Sin(2 * math.Pi * 440 * float64(idx) / 48000))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Resample(ctx, in, 48000, TargetSampleRate)
	}
}
