package capture

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
)

// DefaultPollInterval is how often the capture goroutine checks the stop signal.
const DefaultPollInterval = 50 * time.Millisecond

// Run is the body of the capture goroutine. It owns the device session
// and the input stream from opening to closing, pinned to a single OS
// thread, and feeds session until state.StopSignal is set.
//
// state.IsRecording is cleared only after the stream and the device
// session are released, on success and on failure alike.
func Run(
	ctx context.Context,
	openSession audio.DeviceSessionOpener,
	session *AudioSession,
	state *State,
	pollInterval time.Duration,
) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer state.IsRecording.Store(false)

	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	if err := run(ctx, openSession, session, state, pollInterval); err != nil {
		logger.Errorf(ctx, "the capture failed: %v", err)
	}
}

func run(
	ctx context.Context,
	openSession audio.DeviceSessionOpener,
	session *AudioSession,
	state *State,
	pollInterval time.Duration,
) (_err error) {
	logger.Debugf(ctx, "capture")
	defer func() { logger.Debugf(ctx, "/capture: %v", _err) }()

	device, err := openSession(ctx)
	if err != nil {
		return fmt.Errorf("unable to open a device session: %w", err)
	}
	defer func() {
		if err := device.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the device session: %v", err)
		}
	}()

	cfg, err := device.DefaultInputConfig(ctx)
	if err != nil {
		return fmt.Errorf("unable to get the input configuration: %w", err)
	}
	if sampleRate, channels := session.Format(); sampleRate != cfg.SampleRate || channels != cfg.Channels {
		logger.Warnf(ctx, "the input configuration changed since the start: %dHz %dch -> %s", sampleRate, channels, cfg)
		session.SetFormat(cfg)
	}

	stream, err := device.OpenInput(ctx, cfg, session.Callback())
	if err != nil {
		return fmt.Errorf("unable to open the input stream: %w", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the input stream: %v", err)
		}
		if dropped := session.DroppedSamples(); dropped > 0 {
			logger.Warnf(ctx, "dropped %d samples due to contention", dropped)
		}
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("unable to start the input stream: %w", err)
	}
	logger.Debugf(ctx, "capturing %s", cfg)

	for !state.StopSignal.Load() {
		time.Sleep(pollInterval)
	}
	return nil
}
