package planar

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestUnplanarize(t *testing.T) {
	planes := [][]uint32{
		{0x00010203, 0x04050607, 0x08090A0B, 0x0C0D0E0F},
		{0x10111213, 0x14151617, 0x18191A1B, 0x1C1D1E1F},
	}
	r, err := Unplanarize(planes)
	require.NoError(t, err)
	require.Equal(t, []uint32{
		0x00010203, 0x10111213, 0x04050607, 0x14151617,
		0x08090A0B, 0x18191A1B, 0x0C0D0E0F, 0x1C1D1E1F,
	}, r, spew.Sdump(planes))

	_, err = Unplanarize([][]uint32{{1, 2}, {3}})
	require.Error(t, err)
}

func TestChannel(t *testing.T) {
	require.Equal(t, []int16{2, 4}, Channel(2, 1, []int16{1, 2, 3, 4, 5}))
	require.Equal(t, []int16{1, 2, 3}, Channel(1, 0, []int16{1, 2, 3}))
}
