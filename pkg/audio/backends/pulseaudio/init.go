package pulseaudio

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const (
	Name     = "pulseaudio"
	Priority = 100
)

func init() {
	registry.RegisterPlayerFactory(Priority, Name, PlayerPCMPulseFactory{})
	registry.RegisterDeviceSessionFactory(Priority, Name, DeviceSessionPulseFactory{})
}

type PlayerPCMPulseFactory struct{}

func (PlayerPCMPulseFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	p, err := NewPlayerPCM()
	if err != nil {
		return nil, err
	}
	return p, nil
}

type DeviceSessionPulseFactory struct{}

func (DeviceSessionPulseFactory) NewDeviceSession() (types.DeviceSession, error) {
	s, err := NewDeviceSession()
	if err != nil {
		return nil, err
	}
	return s, nil
}
