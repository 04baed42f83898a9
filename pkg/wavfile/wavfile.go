// Package wavfile writes and reads mono 16-bit PCM WAV artifacts.
package wavfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const (
	BitDepth = 16

	// FilePrefix is the prefix of every artifact file name.
	FilePrefix = "rec_"

	writeChunkSize = 4096
	wavFormatPCM   = 1
)

var ErrEncode = errors.New("unable to encode the WAV artifact")

type Stage string

const (
	StageDirectory = Stage("directory")
	StageFile      = Stage("file")
	StageWrite     = Stage("write")
	StageFinalize  = Stage("finalize")
)

// EncodeError tells which step of writing an artifact failed.
type EncodeError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("unable to encode WAV '%s' (%s stage): %v", e.Path, e.Stage, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

// Quantize clamps a sample to [-1, 1] and scales it to a signed 16-bit value.
// NaN is mapped to silence.
func Quantize(v float32) int16 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	f := math.Max(-1, math.Min(1, float64(v)))
	return int16(math.Round(f * math.MaxInt16))
}

// NewPath returns a unique, time-ordered artifact path inside dir.
func NewPath(dir string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("unable to generate a file name: %w", err)
	}
	return filepath.Join(dir, FilePrefix+id.String()+".wav"), nil
}

// WriteMono writes samples as a mono 16-bit PCM WAV file in dir and returns
// its path. The file is complete and closed when WriteMono returns; on
// failure the partial file is removed.
func WriteMono(
	ctx context.Context,
	dir string,
	samples []float32,
	sampleRate uint32,
) (_path string, _err error) {
	logger.Tracef(ctx, "WriteMono: %s, %d samples, %dHz", dir, len(samples), sampleRate)
	defer func() { logger.Tracef(ctx, "/WriteMono: %s, %v", _path, _err) }()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", &EncodeError{Stage: StageDirectory, Path: dir, Err: err}
	}

	path, err := NewPath(dir)
	if err != nil {
		return "", &EncodeError{Stage: StageFile, Path: dir, Err: err}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", &EncodeError{Stage: StageFile, Path: path, Err: err}
	}

	if err := encode(f, samples, sampleRate); err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warnf(ctx, "unable to remove the partial file '%s': %v", path, rmErr)
		}
		err.Path = path
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", &EncodeError{Stage: StageFinalize, Path: path, Err: err}
	}

	logger.Debugf(ctx, "wrote %d samples at %dHz to '%s'", len(samples), sampleRate, path)
	return path, nil
}

func encode(
	w io.WriteSeeker,
	samples []float32,
	sampleRate uint32,
) *EncodeError {
	enc := wav.NewEncoder(w, int(sampleRate), BitDepth, 1, wavFormatPCM)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  int(sampleRate),
		},
		SourceBitDepth: BitDepth,
		Data:           make([]int, 0, writeChunkSize),
	}
	// the header is written by the first Write, so there is always one
	for pos := 0; pos == 0 || pos < len(samples); pos += writeChunkSize {
		chunk := samples[pos:min(pos+writeChunkSize, len(samples))]
		buf.Data = buf.Data[:0]
		for _, v := range chunk {
			buf.Data = append(buf.Data, int(Quantize(v)))
		}
		if err := enc.Write(buf); err != nil {
			return &EncodeError{Stage: StageWrite, Err: fmt.Errorf("unable to write samples at %d: %w", pos, err)}
		}
	}

	if err := enc.Close(); err != nil {
		return &EncodeError{Stage: StageFinalize, Err: err}
	}
	return nil
}

type Info struct {
	SampleRate uint32
	Channels   uint16
	BitDepth   uint16
}

// Read decodes a 16-bit PCM WAV file into interleaved samples.
func Read(path string) (Info, []int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, nil, fmt.Errorf("'%s' is not a valid WAV file", path)
	}
	info := Info{
		SampleRate: dec.SampleRate,
		Channels:   dec.NumChans,
		BitDepth:   dec.BitDepth,
	}
	if info.BitDepth != BitDepth {
		return info, nil, fmt.Errorf("expected %d bits per sample, got %d", BitDepth, info.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return info, nil, fmt.Errorf("unable to decode the PCM data of '%s': %w", path, err)
	}
	samples := make([]int16, len(buf.Data))
	for idx, v := range buf.Data {
		samples[idx] = int16(v)
	}
	return info, samples, nil
}
