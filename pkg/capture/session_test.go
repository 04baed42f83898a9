package capture

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
)

func TestAudioSession(t *testing.T) {
	cfg := audio.InputConfig{SampleRate: 48000, Channels: 2, PCMFormat: audio.PCMFormatFloat32LE}

	t.Run("AppendAndDrain", func(t *testing.T) {
		s := NewAudioSession()
		s.Reset(cfg)
		s.AppendFloat32([]float32{0.1, 0.2})
		s.AppendInt16([]int16{math.MaxInt16, -math.MaxInt16, 0, 16384})

		c, err := s.Drain()
		require.NoError(t, err)
		assert.Equal(t, audio.SampleRate(48000), c.SampleRate)
		assert.Equal(t, audio.Channel(2), c.Channels)
		require.Len(t, c.Samples, 6, spew.Sdump(c))
		assert.Equal(t, []float32{0.1, 0.2, 1, -1, 0}, c.Samples[:5])
		assert.InDelta(t, 0.5, c.Samples[5], 1e-4)
		assert.Empty(t, c.Gaps)

		c, err = s.Drain()
		require.NoError(t, err)
		assert.Empty(t, c.Samples)
	})

	t.Run("ResetClears", func(t *testing.T) {
		s := NewAudioSession()
		s.Reset(cfg)
		s.AppendFloat32([]float32{1, 2, 3, 4})
		s.Reset(audio.InputConfig{SampleRate: 16000, Channels: 1})

		c, err := s.Drain()
		require.NoError(t, err)
		assert.Empty(t, c.Samples)
		assert.Equal(t, audio.SampleRate(16000), c.SampleRate)
		assert.Equal(t, audio.Channel(1), c.Channels)
	})

	t.Run("ContentionDropsAndRecordsGaps", func(t *testing.T) {
		s := NewAudioSession()
		s.Reset(cfg)
		s.AppendFloat32([]float32{1, 1})

		s.locker.Lock()
		s.AppendFloat32([]float32{2, 2, 2, 2})
		s.AppendInt16([]int16{3, 3})
		s.locker.Unlock()
		assert.Equal(t, uint64(6), s.DroppedSamples())

		s.AppendFloat32([]float32{4, 4})

		s.locker.Lock()
		s.AppendFloat32([]float32{5, 5})
		s.locker.Unlock()

		c, err := s.Drain()
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 1, 4, 4}, c.Samples)
		assert.Equal(t, []Gap{{Offset: 2, Length: 6}, {Offset: 4, Length: 2}}, c.Gaps)
		assert.Equal(t, uint64(8), c.DroppedSamples)
	})

	t.Run("Poisoned", func(t *testing.T) {
		s := NewAudioSession()
		s.Reset(cfg)
		s.AppendFloat32([]float32{1, 1})

		func() {
			require.True(t, s.tryLock(0))
			defer s.unlock()
			panic("boom")
		}()

		_, err := s.Drain()
		require.ErrorIs(t, err, ErrLockPoisoned)

		s.AppendFloat32([]float32{2, 2})
		c, err := s.Drain()
		require.NoError(t, err)
		assert.Equal(t, []float32{2, 2}, c.Samples)
	})

	t.Run("ResetClearsPoison", func(t *testing.T) {
		s := NewAudioSession()
		func() {
			require.True(t, s.tryLock(0))
			defer s.unlock()
			panic("boom")
		}()
		s.Reset(cfg)
		_, err := s.Drain()
		require.NoError(t, err)
	})
}
