package resampler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const converterChunkFrames = 1024

type Format struct {
	Channels   types.Channel
	SampleRate types.SampleRate
	PCMFormat  types.PCMFormat
}

func (f Format) frameSize() int {
	return int(f.PCMFormat.Size()) * int(f.Channels)
}

// Converter is a streaming io.Reader converting interleaved PCM between
// sample formats, channel layouts (mono <-> N channels) and sample rates.
// Rate conversion uses one FFT resampler per channel.
type Converter struct {
	inReader  io.Reader
	inFormat  Format
	outFormat Format
	locker    sync.Mutex

	channels   int
	resamplers []*FFT
	inBuf      []byte
	planes     [][]float32
	resampled  [][]float32
	pending    []byte
	eof        bool
}

var _ io.Reader = (*Converter)(nil)

func NewConverter(
	inFormat Format,
	inReader io.Reader,
	outFormat Format,
) (*Converter, error) {
	c := &Converter{
		inReader:  inReader,
		inFormat:  inFormat,
		outFormat: outFormat,
	}
	err := c.init()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a converter from %#+v to %#+v: %w", inFormat, outFormat, err)
	}
	return c, nil
}

func (c *Converter) init() error {
	if c.inFormat.PCMFormat.Size() == 0 || c.outFormat.PCMFormat.Size() == 0 {
		return fmt.Errorf("%w: %s -> %s", types.ErrUnsupportedSampleFormat, c.inFormat.PCMFormat, c.outFormat.PCMFormat)
	}
	if c.inFormat.Channels == 0 || c.outFormat.Channels == 0 {
		return fmt.Errorf("zero channels")
	}

	switch {
	case c.inFormat.Channels == c.outFormat.Channels:
		c.channels = int(c.inFormat.Channels)
	case c.inFormat.Channels == 1, c.outFormat.Channels == 1:
		c.channels = 1
	default:
		return fmt.Errorf("do not know how to convert %d channels to %d", c.inFormat.Channels, c.outFormat.Channels)
	}

	chunkFrames := converterChunkFrames
	if c.inFormat.SampleRate != c.outFormat.SampleRate {
		for range c.channels {
			r, err := NewFFT(c.inFormat.SampleRate, c.outFormat.SampleRate, ChunkSize, SubChunks)
			if err != nil {
				return err
			}
			c.resamplers = append(c.resamplers, r)
		}
		chunkFrames = c.resamplers[0].InputFramesNext()
	}

	c.inBuf = make([]byte, chunkFrames*c.inFormat.frameSize())
	c.planes = make([][]float32, c.channels)
	c.resampled = make([][]float32, c.channels)
	for idx := range c.planes {
		c.planes[idx] = make([]float32, 0, chunkFrames)
	}
	return nil
}

func (c *Converter) Read(p []byte) (int, error) {
	c.locker.Lock()
	defer c.locker.Unlock()

	for len(c.pending) == 0 {
		if c.eof {
			return 0, io.EOF
		}
		if err := c.fill(); err != nil {
			return 0, err
		}
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *Converter) fill() error {
	n, err := io.ReadFull(c.inReader, c.inBuf)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.eof = true
	case err != nil:
		return fmt.Errorf("unable to read: %w", err)
	}

	inFrameSize := c.inFormat.frameSize()
	inSampleSize := int(c.inFormat.PCMFormat.Size())
	framesRead := n / inFrameSize
	if framesRead == 0 {
		return nil
	}

	for ch := range c.planes {
		c.planes[ch] = c.planes[ch][:0]
	}
	numAvg := 1
	if c.channels == 1 {
		numAvg = int(c.inFormat.Channels)
	}
	for frameIdx := 0; frameIdx < framesRead; frameIdx++ {
		frame := c.inBuf[frameIdx*inFrameSize:]
		for ch := range c.planes {
			var sum float64
			for avgIdx := 0; avgIdx < numAvg; avgIdx++ {
				sum += getFloat64(c.inFormat.PCMFormat, frame[(ch*numAvg+avgIdx)*inSampleSize:])
			}
			c.planes[ch] = append(c.planes[ch], float32(sum/float64(numAvg)))
		}
	}

	out := c.planes
	if c.resamplers != nil {
		for ch, r := range c.resamplers {
			in := c.planes[ch]
			if len(in) < r.InputFramesNext() {
				in = append(in, make([]float32, r.InputFramesNext()-len(in))...)
			}
			resampled, err := r.Process(c.resampled[ch][:0], in)
			if err != nil {
				return err
			}
			if framesRead < r.InputFramesNext() {
				keep := r.OutputFramesFor(framesRead)
				resampled = resampled[:min(keep, len(resampled))]
			}
			c.resampled[ch] = resampled
		}
		out = c.resampled
	}

	c.encode(out)
	return nil
}

func (c *Converter) encode(planes [][]float32) {
	outSampleSize := int(c.outFormat.PCMFormat.Size())
	outFrameSize := c.outFormat.frameSize()
	frames := len(planes[0])

	c.pending = make([]byte, frames*outFrameSize)
	for frameIdx := 0; frameIdx < frames; frameIdx++ {
		for ch := 0; ch < int(c.outFormat.Channels); ch++ {
			v := planes[min(ch, len(planes)-1)][frameIdx]
			setFloat64(c.outFormat.PCMFormat, c.pending[frameIdx*outFrameSize+ch*outSampleSize:], float64(v))
		}
	}
}

func getFloat64(f types.PCMFormat, p []byte) float64 {
	switch f {
	case types.PCMFormatU8:
		return (float64(p[0]) - 128) / 128
	case types.PCMFormatS16LE:
		return float64(int16(binary.LittleEndian.Uint16(p))) / 32768
	case types.PCMFormatS16BE:
		return float64(int16(binary.BigEndian.Uint16(p))) / 32768
	case types.PCMFormatS24LE:
		return float64(signExtend24(uint32(p[0])|uint32(p[1])<<8|uint32(p[2])<<16)) / 8388608
	case types.PCMFormatS24BE:
		return float64(signExtend24(uint32(p[2])|uint32(p[1])<<8|uint32(p[0])<<16)) / 8388608
	case types.PCMFormatS32LE:
		return float64(int32(binary.LittleEndian.Uint32(p))) / 2147483648
	case types.PCMFormatS32BE:
		return float64(int32(binary.BigEndian.Uint32(p))) / 2147483648
	case types.PCMFormatFloat32LE:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
	case types.PCMFormatFloat32BE:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(p)))
	case types.PCMFormatFloat64LE:
		return math.Float64frombits(binary.LittleEndian.Uint64(p))
	case types.PCMFormatFloat64BE:
		return math.Float64frombits(binary.BigEndian.Uint64(p))
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}

func signExtend24(v uint32) int32 {
	val := int32(v)
	if val&0x800000 != 0 {
		val |= -16777216
	}
	return val
}

func quantize(v float64, maxValue float64) float64 {
	return math.Max(-maxValue-1, math.Min(maxValue, math.Round(v*(maxValue+1))))
}

func setFloat64(f types.PCMFormat, p []byte, v float64) {
	switch f {
	case types.PCMFormatU8:
		p[0] = byte(quantize(v, 127) + 128)
	case types.PCMFormatS16LE:
		binary.LittleEndian.PutUint16(p, uint16(int16(quantize(v, 32767))))
	case types.PCMFormatS16BE:
		binary.BigEndian.PutUint16(p, uint16(int16(quantize(v, 32767))))
	case types.PCMFormatS24LE:
		val := int32(quantize(v, 8388607))
		p[0] = byte(val)
		p[1] = byte(val >> 8)
		p[2] = byte(val >> 16)
	case types.PCMFormatS24BE:
		val := int32(quantize(v, 8388607))
		p[0] = byte(val >> 16)
		p[1] = byte(val >> 8)
		p[2] = byte(val)
	case types.PCMFormatS32LE:
		binary.LittleEndian.PutUint32(p, uint32(int32(quantize(v, 2147483647))))
	case types.PCMFormatS32BE:
		binary.BigEndian.PutUint32(p, uint32(int32(quantize(v, 2147483647))))
	case types.PCMFormatFloat32LE:
		binary.LittleEndian.PutUint32(p, math.Float32bits(float32(v)))
	case types.PCMFormatFloat32BE:
		binary.BigEndian.PutUint32(p, math.Float32bits(float32(v)))
	case types.PCMFormatFloat64LE:
		binary.LittleEndian.PutUint64(p, math.Float64bits(v))
	case types.PCMFormatFloat64BE:
		binary.BigEndian.PutUint64(p, math.Float64bits(v))
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}
