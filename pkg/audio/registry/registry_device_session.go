package registry

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type DeviceSessionFactory interface {
	NewDeviceSession() (types.DeviceSession, error)
}

var deviceSessionRegistry = newRegistry[DeviceSessionFactory]()

func RegisterDeviceSessionFactory(
	priority int,
	name string,
	factory DeviceSessionFactory,
) {
	deviceSessionRegistry.register(priority, name, factory)
}

func DeviceSessionFactories() []DeviceSessionFactory {
	var factories []DeviceSessionFactory
	for _, factory := range deviceSessionRegistry.sorted() {
		factories = append(factories, factory.Factory)
	}
	return factories
}

// DeviceSessionFactoryNames returns the names of the registered backends
// in the order they are tried.
func DeviceSessionFactoryNames() []string {
	var names []string
	for _, factory := range deviceSessionRegistry.sorted() {
		names = append(names, factory.Name)
	}
	return names
}

func DeviceSessionFactoryByName(name string) (DeviceSessionFactory, bool) {
	return deviceSessionRegistry.byName(name)
}
