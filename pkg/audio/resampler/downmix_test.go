package resampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

func TestDownmix(t *testing.T) {
	t.Run("Mono", func(t *testing.T) {
		in := []float32{0.1, 0.2, -0.3}
		assert.Equal(t, in, Downmix(in, 1))
	})

	t.Run("Constant", func(t *testing.T) {
		for channels := 2; channels <= 8; channels++ {
			in := make([]float32, channels*100)
			for idx := range in {
				in[idx] = 0.25
			}
			out := Downmix(in, types.Channel(channels))
			require.Len(t, out, 100)
			for _, v := range out {
				require.InDelta(t, 0.25, v, 1e-6)
			}
		}
	})

	t.Run("AlternatingStereo", func(t *testing.T) {
		in := make([]float32, 2*48000)
		for idx := range in {
			if idx%2 == 0 {
				in[idx] = 1
			} else {
				in[idx] = -1
			}
		}
		out := Downmix(in, 2)
		require.Len(t, out, 48000)
		for _, v := range out {
			require.Zero(t, v)
		}
	})

	t.Run("IncompleteTrailingFrame", func(t *testing.T) {
		out := Downmix([]float32{1, 3, 5, 8}, 3)
		assert.Equal(t, []float32{3, 8}, out)
	})
}
