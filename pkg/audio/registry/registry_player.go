package registry

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type PlayerPCMFactory interface {
	NewPlayerPCM() (types.PlayerPCM, error)
}

var playerRegistry = newRegistry[PlayerPCMFactory]()

func RegisterPlayerFactory(
	priority int,
	name string,
	factory PlayerPCMFactory,
) {
	playerRegistry.register(priority, name, factory)
}

func PlayerFactories() []PlayerPCMFactory {
	var factories []PlayerPCMFactory
	for _, factory := range playerRegistry.sorted() {
		factories = append(factories, factory.Factory)
	}
	return factories
}
