package malgo

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gen2brain/malgo"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

// FallbackSampleRate is requested when the backend does not report the
// native formats of the device; miniaudio converts to it.
const FallbackSampleRate = 48000

type DeviceSession struct {
	Context   *malgo.AllocatedContext
	closeOnce sync.Once
	closeErr  error
}

var _ types.DeviceSession = (*DeviceSession)(nil)

func NewDeviceSession() (*DeviceSession, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a miniaudio context: %w", err)
	}
	return &DeviceSession{
		Context: ctx,
	}, nil
}

func (s *DeviceSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.Context.Uninit()
		s.Context.Free()
	})
	return s.closeErr
}

func (s *DeviceSession) Ping(ctx context.Context) error {
	info, err := s.defaultCaptureDevice()
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "default capture device: '%s'", info.Name())
	return nil
}

func (s *DeviceSession) defaultCaptureDevice() (malgo.DeviceInfo, error) {
	devices, err := s.Context.Devices(malgo.Capture)
	if err != nil {
		return malgo.DeviceInfo{}, fmt.Errorf("%w: unable to list capture devices: %w", types.ErrNoInputDevice, err)
	}
	if len(devices) == 0 {
		return malgo.DeviceInfo{}, fmt.Errorf("%w: no capture devices", types.ErrNoInputDevice)
	}
	for _, device := range devices {
		if device.IsDefault != 0 {
			return device, nil
		}
	}
	return devices[0], nil
}

func (s *DeviceSession) DefaultInputConfig(
	ctx context.Context,
) (types.InputConfig, error) {
	device, err := s.defaultCaptureDevice()
	if err != nil {
		return types.InputConfig{}, err
	}

	info, err := s.Context.DeviceInfo(malgo.Capture, device.ID, malgo.Shared)
	if err != nil {
		return types.InputConfig{}, fmt.Errorf("%w: unable to query '%s': %w", types.ErrDeviceConfig, device.Name(), err)
	}

	if info.FormatCount == 0 {
		cfg := types.InputConfig{
			SampleRate: FallbackSampleRate,
			Channels:   1,
			PCMFormat:  types.PCMFormatFloat32LE,
		}
		logger.Debugf(ctx, "device '%s' does not report native formats, using %s", device.Name(), cfg)
		return cfg, nil
	}

	native := info.Formats[0]
	if native.SampleRate == 0 || native.Channels == 0 {
		return types.InputConfig{}, fmt.Errorf("%w: device '%s' reports %dHz and %d channels", types.ErrDeviceConfig, device.Name(), native.SampleRate, native.Channels)
	}
	cfg := types.InputConfig{
		SampleRate: types.SampleRate(native.SampleRate),
		Channels:   types.Channel(native.Channels),
		PCMFormat:  pcmFormatFromMalgo(native.Format),
	}
	logger.Debugf(ctx, "default capture device '%s': %s", device.Name(), cfg)
	return cfg, nil
}

func pcmFormatFromMalgo(format malgo.FormatType) types.PCMFormat {
	switch format {
	case malgo.FormatU8:
		return types.PCMFormatU8
	case malgo.FormatS16:
		return types.PCMFormatS16LE
	case malgo.FormatS24:
		return types.PCMFormatS24LE
	case malgo.FormatS32:
		return types.PCMFormatS32LE
	case malgo.FormatF32:
		return types.PCMFormatFloat32LE
	default:
		return types.PCMFormatUndefined
	}
}

func (s *DeviceSession) OpenInput(
	ctx context.Context,
	cfg types.InputConfig,
	callback types.InputCallback,
) (_ types.InputStream, _err error) {
	logger.Debugf(ctx, "OpenInput: %s", cfg)
	defer func() { logger.Debugf(ctx, "/OpenInput: %v", _err) }()

	channels := int(cfg.Channels)
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	var onData malgo.DataProc
	switch cfg.PCMFormat {
	case types.PCMFormatFloat32LE:
		if callback.Float32 == nil {
			return nil, fmt.Errorf("no float32 callback is provided")
		}
		deviceConfig.Capture.Format = malgo.FormatF32
		onData = func(_, in []byte, frameCount uint32) {
			if len(in) == 0 {
				return
			}
			count := min(int(frameCount)*channels, len(in)/4)
			callback.Float32(unsafe.Slice((*float32)(unsafe.Pointer(&in[0])), count))
		}
	case types.PCMFormatS16LE:
		if callback.Int16 == nil {
			return nil, fmt.Errorf("no int16 callback is provided")
		}
		deviceConfig.Capture.Format = malgo.FormatS16
		onData = func(_, in []byte, frameCount uint32) {
			if len(in) == 0 {
				return
			}
			count := min(int(frameCount)*channels, len(in)/2)
			callback.Int16(unsafe.Slice((*int16)(unsafe.Pointer(&in[0])), count))
		}
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, cfg.PCMFormat)
	}

	device, err := malgo.InitDevice(s.Context.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onData,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: unable to initialize the capture device: %w", types.ErrStreamStart, err)
	}

	return &InputStream{
		Device: device,
	}, nil
}
