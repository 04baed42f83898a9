package recording

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
	"github.com/xaionaro-go/voicecapture/pkg/capture"
)

// Controller is the recording state machine: Idle -> Recording -> Stopping -> Idle.
//
// At most one capture goroutine exists at a time. State transitions are
// serialized; a transition requested while another one is in progress
// is rejected rather than queued.
type Controller struct {
	openSession audio.DeviceSessionOpener
	options     Options

	state   capture.State
	session *capture.AudioSession

	transitionLocker sync.Mutex
}

func New(
	openSession audio.DeviceSessionOpener,
	options Options,
) *Controller {
	return &Controller{
		openSession: openSession,
		options:     options.withDefaults(),
		session:     capture.NewAudioSession(),
	}
}

var (
	defaultController     *Controller
	defaultControllerOnce sync.Once
)

// Default returns the process-wide controller using the automatically
// selected audio backend. It is created on the first call.
func Default() *Controller {
	defaultControllerOnce.Do(func() {
		defaultController = New(audio.NewDeviceSessionAuto, DefaultOptions())
	})
	return defaultController
}

func (c *Controller) IsRecording() bool {
	return c.state.IsRecording.Load()
}

func (c *Controller) Status() Status {
	switch {
	case !c.state.IsRecording.Load():
		return StatusIdle
	case c.state.StopSignal.Load():
		return StatusStopping
	default:
		return StatusRecording
	}
}

// Start begins a new recording and returns without waiting for the audio
// stream to actually start. Failures of the capture goroutine are only
// logged; they make the controller Idle again.
func (c *Controller) Start(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Start")
	defer func() { logger.Tracef(ctx, "/Start: %v", _err) }()

	if !c.transitionLocker.TryLock() {
		return fmt.Errorf("%w: another state transition is in progress", ErrAlreadyRecording)
	}
	defer c.transitionLocker.Unlock()

	if c.state.IsRecording.Load() {
		return ErrAlreadyRecording
	}

	cfg, err := c.defaultInputConfig(ctx)
	if err != nil {
		return err
	}

	c.session.Reset(cfg)
	c.state.StopSignal.Store(false)
	c.state.IsRecording.Store(true)

	observability.Go(ctx, func() {
		capture.Run(ctx, c.openSession, c.session, &c.state, c.options.CapturePollInterval)
	})
	logger.Debugf(ctx, "started recording at %s", cfg)
	return nil
}

func (c *Controller) defaultInputConfig(ctx context.Context) (audio.InputConfig, error) {
	device, err := c.openSession(ctx)
	if err != nil {
		if !errors.Is(err, audio.ErrNoInputDevice) {
			err = fmt.Errorf("%w: %w", audio.ErrNoInputDevice, err)
		}
		return audio.InputConfig{}, fmt.Errorf("unable to open a device session: %w", err)
	}
	defer func() {
		if err := device.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the device session: %v", err)
		}
	}()

	cfg, err := device.DefaultInputConfig(ctx)
	if err != nil {
		if !errors.Is(err, audio.ErrNoInputDevice) && !errors.Is(err, audio.ErrDeviceConfig) {
			err = fmt.Errorf("%w: %w", audio.ErrDeviceConfig, err)
		}
		return audio.InputConfig{}, fmt.Errorf("unable to get the input configuration: %w", err)
	}
	return cfg, nil
}

// Stop finishes the recording and returns the path of the resulting WAV
// artifact. The ownership of the file is passed to the caller.
//
// Stop waits up to Options.StopTimeout for the capture goroutine to release
// the device, and then proceeds with whatever was captured anyway. The
// context is not used to cut this wait short.
func (c *Controller) Stop(ctx context.Context) (_path string, _err error) {
	logger.Tracef(ctx, "Stop")
	defer func() { logger.Tracef(ctx, "/Stop: %s, %v", _path, _err) }()

	if !c.transitionLocker.TryLock() {
		return "", fmt.Errorf("%w: another state transition is in progress", ErrNotRecording)
	}

	if !c.state.IsRecording.Load() {
		c.transitionLocker.Unlock()
		return "", ErrNotRecording
	}

	c.state.StopSignal.Store(true)
	if !c.waitForCaptureExit(ctx) {
		logger.Warnf(ctx, "the capture goroutine did not stop within %v, proceeding anyway", c.options.StopTimeout)
	}

	captured, err := c.session.Drain()
	c.transitionLocker.Unlock()
	if err != nil {
		return "", fmt.Errorf("unable to drain the captured audio: %w", err)
	}
	if len(captured.Samples) == 0 {
		return "", ErrNoAudioCaptured
	}

	return c.process(ctx, captured)
}

func (c *Controller) waitForCaptureExit(ctx context.Context) bool {
	deadline := time.Now().Add(c.options.StopTimeout)

	ticker := time.NewTicker(c.options.StopPollInterval)
	defer ticker.Stop()
	for c.state.IsRecording.Load() {
		if !time.Now().Before(deadline) {
			return false
		}
		<-ticker.C
	}
	logger.Debugf(ctx, "the capture goroutine has exited")
	return true
}
