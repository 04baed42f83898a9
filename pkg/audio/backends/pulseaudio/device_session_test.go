package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

func TestInputConfigFromSource(t *testing.T) {
	for _, tc := range []struct {
		name       string
		sampleRate int
		channels   int
		expected   types.InputConfig
	}{
		{"mono", 16000, 1, types.InputConfig{SampleRate: 16000, Channels: 1, PCMFormat: types.PCMFormatFloat32LE}},
		{"stereo", 48000, 2, types.InputConfig{SampleRate: 48000, Channels: 2, PCMFormat: types.PCMFormatFloat32LE}},
		{"surround", 44100, 6, types.InputConfig{SampleRate: 44100, Channels: 2, PCMFormat: types.PCMFormatFloat32LE}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := inputConfigFromSource("src", tc.sampleRate, tc.channels)
			require.NoError(t, err)
			require.Equal(t, tc.expected, cfg)
		})
	}

	t.Run("noChannels", func(t *testing.T) {
		_, err := inputConfigFromSource("src", 48000, 0)
		require.ErrorIs(t, err, types.ErrDeviceConfig)
	})
	t.Run("noSampleRate", func(t *testing.T) {
		_, err := inputConfigFromSource("src", 0, 2)
		require.ErrorIs(t, err, types.ErrDeviceConfig)
	})
}
