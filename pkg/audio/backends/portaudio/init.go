package portaudio

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const (
	Name     = "portaudio"
	Priority = 60
)

func init() {
	registry.RegisterPlayerFactory(Priority, Name, PlayerPCMFactory{})
	registry.RegisterDeviceSessionFactory(Priority, Name, DeviceSessionFactory{})
}

type PlayerPCMFactory struct{}

func (PlayerPCMFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	return NewPlayerPCM()
}

type DeviceSessionFactory struct{}

func (DeviceSessionFactory) NewDeviceSession() (types.DeviceSession, error) {
	return NewDeviceSession()
}
