package malgo

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const (
	Name     = "malgo"
	Priority = 40
)

func init() {
	registry.RegisterDeviceSessionFactory(Priority, Name, DeviceSessionFactory{})
}

type DeviceSessionFactory struct{}

func (DeviceSessionFactory) NewDeviceSession() (types.DeviceSession, error) {
	s, err := NewDeviceSession()
	if err != nil {
		return nil, err
	}
	return s, nil
}
