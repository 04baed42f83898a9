package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
)

// DeviceSessionOpener opens a fresh connection to the platform audio layer.
type DeviceSessionOpener func(ctx context.Context) (DeviceSession, error)

var (
	lastSuccessfulDeviceSessionFactory       registry.DeviceSessionFactory
	lastSuccessfulDeviceSessionFactoryLocker sync.Mutex
)

func getLastSuccessfulDeviceSessionFactory() registry.DeviceSessionFactory {
	lastSuccessfulDeviceSessionFactoryLocker.Lock()
	defer lastSuccessfulDeviceSessionFactoryLocker.Unlock()
	return lastSuccessfulDeviceSessionFactory
}

func setLastSuccessfulDeviceSessionFactory(factory registry.DeviceSessionFactory) {
	lastSuccessfulDeviceSessionFactoryLocker.Lock()
	defer lastSuccessfulDeviceSessionFactoryLocker.Unlock()
	lastSuccessfulDeviceSessionFactory = factory
}

// NewDeviceSessionAuto returns a session of the first registered backend
// that is able to see an input device. Backends are tried by priority,
// but the backend that succeeded last time is tried first.
func NewDeviceSessionAuto(
	ctx context.Context,
) (DeviceSession, error) {
	if factory := getLastSuccessfulDeviceSessionFactory(); factory != nil {
		session, err := factory.NewDeviceSession()
		if err == nil {
			if err := session.Ping(ctx); err == nil {
				return session, nil
			}
			session.Close()
		}
	}

	var mErr *multierror.Error
	for _, factory := range registry.DeviceSessionFactories() {
		session, err := factory.NewDeviceSession()
		logger.Debugf(ctx, "initializing device session %T result is %v", factory, err)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to initialize %T: %w", factory, err))
			continue
		}

		err = session.Ping(ctx)
		logger.Debugf(ctx, "pinging device session %T result is %v", session, err)
		if err != nil {
			session.Close()
			mErr = multierror.Append(mErr, fmt.Errorf("unable to ping %T: %w", session, err))
			continue
		}

		setLastSuccessfulDeviceSessionFactory(factory)
		return session, nil
	}

	if mErr == nil {
		return nil, fmt.Errorf("%w: no audio backends are compiled in", ErrNoInputDevice)
	}
	logger.Infof(ctx, "was unable to initialize any device session: %v", mErr.ErrorOrNil())
	return nil, fmt.Errorf("%w: %w", ErrNoInputDevice, mErr.ErrorOrNil())
}

// NewDeviceSessionByName opens a session of the backend registered under
// the given name.
func NewDeviceSessionByName(
	ctx context.Context,
	name string,
) (DeviceSession, error) {
	open, err := DeviceSessionOpenerByName(name)
	if err != nil {
		return nil, err
	}
	return open(ctx)
}

// DeviceSessionOpenerByName returns an opener bound to the backend registered
// under the given name; "auto" (or an empty name) means NewDeviceSessionAuto.
func DeviceSessionOpenerByName(name string) (DeviceSessionOpener, error) {
	if name == "" || name == "auto" {
		return NewDeviceSessionAuto, nil
	}
	factory, ok := registry.DeviceSessionFactoryByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown audio backend %q, known backends: %v", name, registry.DeviceSessionFactoryNames())
	}
	return func(ctx context.Context) (DeviceSession, error) {
		session, err := factory.NewDeviceSession()
		if err != nil {
			return nil, fmt.Errorf("%w: unable to initialize backend %q: %w", ErrNoInputDevice, name, err)
		}
		if err := session.Ping(ctx); err != nil {
			session.Close()
			return nil, fmt.Errorf("%w: backend %q: %w", ErrNoInputDevice, name, err)
		}
		return session, nil
	}, nil
}
