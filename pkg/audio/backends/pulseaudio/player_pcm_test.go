package pulseaudio

import (
	"errors"
	"testing"

	"github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

func TestPulseFormatFor(t *testing.T) {
	for format, expected := range map[types.PCMFormat]byte{
		types.PCMFormatU8:        proto.FormatUint8,
		types.PCMFormatS16LE:     proto.FormatInt16LE,
		types.PCMFormatS32LE:     proto.FormatInt32LE,
		types.PCMFormatFloat32LE: proto.FormatFloat32LE,
	} {
		t.Run(format.String(), func(t *testing.T) {
			actual, err := pulseFormatFor(format)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		_, err := pulseFormatFor(types.PCMFormatS24LE)
		require.ErrorIs(t, err, types.ErrUnsupportedSampleFormat)
	})
}

func TestChannelMapFor(t *testing.T) {
	t.Run("Mono", func(t *testing.T) {
		m, err := channelMapFor(1)
		require.NoError(t, err)
		assert.Equal(t, proto.ChannelMap{proto.ChannelMono}, m)
	})
	t.Run("Stereo", func(t *testing.T) {
		m, err := channelMapFor(2)
		require.NoError(t, err)
		assert.Equal(t, proto.ChannelMap{proto.ChannelLeft, proto.ChannelRight}, m)
	})
	t.Run("Surround", func(t *testing.T) {
		_, err := channelMapFor(6)
		require.Error(t, err)
	})
}

func TestPlaybackResult(t *testing.T) {
	require.NoError(t, playbackResult(nil, false))
	require.ErrorIs(t, playbackResult(nil, true), ErrPlaybackUnderflow)

	streamErr := errors.New("connection reset")
	err := playbackResult(streamErr, true)
	require.ErrorIs(t, err, streamErr)
	assert.NotErrorIs(t, err, ErrPlaybackUnderflow)
}
