package audio

import (
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

type (
	SampleRate    = types.SampleRate
	Channel       = types.Channel
	PCMFormat     = types.PCMFormat
	InputConfig   = types.InputConfig
	InputCallback = types.InputCallback
	InputStream   = types.InputStream
	DeviceSession = types.DeviceSession
	PlayerPCM     = types.PlayerPCM
	Stream        = types.Stream
	PlayStream    = types.PlayStream
)

const (
	PCMFormatUndefined = types.PCMFormatUndefined
	PCMFormatU8        = types.PCMFormatU8
	PCMFormatS16LE     = types.PCMFormatS16LE
	PCMFormatS16BE     = types.PCMFormatS16BE
	PCMFormatS24LE     = types.PCMFormatS24LE
	PCMFormatS24BE     = types.PCMFormatS24BE
	PCMFormatS32LE     = types.PCMFormatS32LE
	PCMFormatS32BE     = types.PCMFormatS32BE
	PCMFormatFloat32LE = types.PCMFormatFloat32LE
	PCMFormatFloat32BE = types.PCMFormatFloat32BE
	PCMFormatFloat64LE = types.PCMFormatFloat64LE
	PCMFormatFloat64BE = types.PCMFormatFloat64BE
)

var (
	ErrNoInputDevice           = types.ErrNoInputDevice
	ErrDeviceConfig            = types.ErrDeviceConfig
	ErrUnsupportedSampleFormat = types.ErrUnsupportedSampleFormat
	ErrStreamStart             = types.ErrStreamStart
)
