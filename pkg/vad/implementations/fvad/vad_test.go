//go:build fvad
// +build fvad

package fvad

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVAD(t *testing.T) {
	ctx := context.Background()

	v, err := New(DefaultMode, 16000, DefaultFrameDuration)
	require.NoError(t, err)
	defer v.Close()
	require.Equal(t, 480, v.FrameSize())

	isSpeech, err := v.IsSpeech(ctx, make([]int16, v.FrameSize()))
	require.NoError(t, err)
	require.False(t, isSpeech)

	_, err = New(DefaultMode, 16000, 25*time.Millisecond)
	require.Error(t, err)

	_, err = New(DefaultMode, 44100, DefaultFrameDuration)
	require.Error(t, err)

	_, err = New(7, 16000, DefaultFrameDuration)
	require.Error(t, err)
}
