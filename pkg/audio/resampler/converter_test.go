package resampler

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

func TestConverter(t *testing.T) {
	t.Run("Identity_S16LE_Mono_16000", func(t *testing.T) {
		inFmt := Format{
			Channels:   1,
			SampleRate: 16000,
			PCMFormat:  types.PCMFormatS16LE,
		}
		data := make([]byte, 200)
		for i := 0; i < 100; i++ {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(i*100-5000)))
		}
		c, err := NewConverter(inFmt, bytes.NewReader(data), inFmt)
		require.NoError(t, err)

		out, err := io.ReadAll(c)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})

	t.Run("Conversion_U8_to_Float32LE_Mono", func(t *testing.T) {
		inFmt := Format{
			Channels:   1,
			SampleRate: 44100,
			PCMFormat:  types.PCMFormatU8,
		}
		outFmt := Format{
			Channels:   1,
			SampleRate: 44100,
			PCMFormat:  types.PCMFormatFloat32LE,
		}
		c, err := NewConverter(inFmt, bytes.NewReader([]byte{0, 128, 255}), outFmt)
		require.NoError(t, err)

		out, err := io.ReadAll(c)
		require.NoError(t, err)
		require.Len(t, out, 12)

		assert.InDelta(t, -1.0, math.Float32frombits(binary.LittleEndian.Uint32(out[0:4])), 0.01)
		assert.InDelta(t, 0.0, math.Float32frombits(binary.LittleEndian.Uint32(out[4:8])), 0.01)
		assert.InDelta(t, 1.0, math.Float32frombits(binary.LittleEndian.Uint32(out[8:12])), 0.01)
	})

	t.Run("Channels_Mono_to_Stereo", func(t *testing.T) {
		inFmt := Format{Channels: 1, SampleRate: 44100, PCMFormat: types.PCMFormatU8}
		outFmt := Format{Channels: 2, SampleRate: 44100, PCMFormat: types.PCMFormatU8}
		c, err := NewConverter(inFmt, bytes.NewReader([]byte{10, 20, 30}), outFmt)
		require.NoError(t, err)

		out, err := io.ReadAll(c)
		require.NoError(t, err)
		assert.Equal(t, []byte{10, 10, 20, 20, 30, 30}, out)
	})

	t.Run("Channels_Stereo_to_Mono", func(t *testing.T) {
		inFmt := Format{Channels: 2, SampleRate: 44100, PCMFormat: types.PCMFormatU8}
		outFmt := Format{Channels: 1, SampleRate: 44100, PCMFormat: types.PCMFormatU8}
		c, err := NewConverter(inFmt, bytes.NewReader([]byte{100, 200, 50, 150}), outFmt)
		require.NoError(t, err)

		out, err := io.ReadAll(c)
		require.NoError(t, err)
		assert.Equal(t, []byte{150, 100}, out)
	})

	t.Run("Resampling_16000_to_48000_Stereo", func(t *testing.T) {
		inFmt := Format{Channels: 1, SampleRate: 16000, PCMFormat: types.PCMFormatS16LE}
		outFmt := Format{Channels: 2, SampleRate: 48000, PCMFormat: types.PCMFormatFloat32LE}
		data := make([]byte, 1600*2)
		c, err := NewConverter(inFmt, bytes.NewReader(data), outFmt)
		require.NoError(t, err)

		out, err := io.ReadAll(c)
		require.NoError(t, err)
		assert.Len(t, out, 4800*2*4)
	})

	t.Run("Clipping", func(t *testing.T) {
		inFmt := Format{Channels: 1, SampleRate: 16000, PCMFormat: types.PCMFormatFloat32LE}
		outFmt := Format{Channels: 1, SampleRate: 16000, PCMFormat: types.PCMFormatS16LE}
		data := make([]byte, 8)
		binary.LittleEndian.PutUint32(data[0:], math.Float32bits(1.5))
		binary.LittleEndian.PutUint32(data[4:], math.Float32bits(-1.5))
		c, err := NewConverter(inFmt, bytes.NewReader(data), outFmt)
		require.NoError(t, err)

		out, err := io.ReadAll(c)
		require.NoError(t, err)
		require.Len(t, out, 4)
		assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(out[0:])))
		assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(out[2:])))
	})

	t.Run("UnsupportedChannels", func(t *testing.T) {
		_, err := NewConverter(
			Format{Channels: 2, SampleRate: 16000, PCMFormat: types.PCMFormatS16LE},
			bytes.NewReader(nil),
			Format{Channels: 3, SampleRate: 16000, PCMFormat: types.PCMFormatS16LE},
		)
		require.Error(t, err)
	})
}
