package types

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNoInputDevice           = errors.New("no input device available")
	ErrDeviceConfig            = errors.New("unable to get the input device configuration")
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
	ErrStreamStart             = errors.New("unable to start the input stream")
)

// InputConfig is the native configuration reported by an input device.
type InputConfig struct {
	SampleRate SampleRate
	Channels   Channel
	PCMFormat  PCMFormat
}

func (cfg InputConfig) String() string {
	return fmt.Sprintf("%dHz, %dch, %s", cfg.SampleRate, cfg.Channels, cfg.PCMFormat)
}

// InputCallback receives interleaved frames from the platform audio thread.
// Exactly one of the functions is invoked, depending on the negotiated
// PCMFormat. The slices are only valid for the duration of the call.
//
// The callbacks must never block.
type InputCallback struct {
	Float32 func(samples []float32)
	Int16   func(samples []int16)
}

// DeviceSession is a connection to a platform audio I/O layer.
type DeviceSession interface {
	io.Closer
	Ping(ctx context.Context) error

	// DefaultInputConfig returns the native configuration of the default input device.
	DefaultInputConfig(ctx context.Context) (InputConfig, error)

	// OpenInput opens (but does not start) a push-style stream on the default
	// input device.
	OpenInput(ctx context.Context, cfg InputConfig, callback InputCallback) (InputStream, error)
}
