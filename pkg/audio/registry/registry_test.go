package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type dummyFactoryA struct{}

func (dummyFactoryA) NewDeviceSession() (types.DeviceSession, error) { return nil, nil }

type dummyFactoryB struct{}

func (dummyFactoryB) NewDeviceSession() (types.DeviceSession, error) { return nil, nil }

type dummyFactoryC struct{}

func (dummyFactoryC) NewDeviceSession() (types.DeviceSession, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	r := newRegistry[DeviceSessionFactory]()
	r.register(40, "c", &dummyFactoryC{})
	r.register(100, "a", dummyFactoryA{})
	r.register(40, "b", dummyFactoryB{})

	var names []string
	for _, factory := range r.sorted() {
		names = append(names, factory.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	factory, ok := r.byName("b")
	require.True(t, ok)
	assert.IsType(t, dummyFactoryB{}, factory)

	_, ok = r.byName("unknown")
	assert.False(t, ok)

	t.Run("duplicateType", func(t *testing.T) {
		assert.Panics(t, func() { r.register(1, "other", dummyFactoryC{}) })
	})
	t.Run("duplicateName", func(t *testing.T) {
		r := newRegistry[DeviceSessionFactory]()
		r.register(1, "x", dummyFactoryA{})
		assert.Panics(t, func() { r.register(2, "x", dummyFactoryB{}) })
	})
}
