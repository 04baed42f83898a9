package oto

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const (
	Name     = "oto"
	Priority = 50
)

func init() {
	registry.RegisterPlayerFactory(Priority, Name, PlayerPCMOtoFactory{})
}

type PlayerPCMOtoFactory struct{}

func (PlayerPCMOtoFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	p, err := NewPlayerPCM()
	if err != nil {
		return nil, err
	}
	return p, nil
}
