package resampler

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/brettbuddin/fourier"
	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/voicecapture/pkg/audio/types"
)

const (
	// ChunkSize is the amount of input frames consumed by a single Process call
	// (approximately; the exact value depends on the rates ratio).
	ChunkSize = 1024

	// SubChunks is the amount of FFT blocks a chunk is split into.
	SubChunks = 2
)

var (
	ErrConstruction = errors.New("unable to construct the resampler")
	ErrProcessing   = errors.New("unable to resample a block")
)

// FFT is a synchronous fixed-input-size resampler of a single channel.
//
// Each sub-chunk is zero-padded to twice its length, multiplied by
// the spectrum of an anti-aliasing filter, resized to the output rate
// in the frequency domain and transformed back. The second half of every
// transformed block is overlap-added to the next one.
type FFT struct {
	inRate        types.SampleRate
	outRate       types.SampleRate
	subChunks     int
	fftSizeIn     int
	fftSizeOut    int
	filterSpectre []complex128
	overlap       []float64
	spectre       []complex128
	outBuf        []complex128
}

// NewFFT returns a resampler which converts blocks of InputFramesNext()
// samples at inRate into blocks of OutputFramesNext() samples at outRate.
func NewFFT(
	inRate types.SampleRate,
	outRate types.SampleRate,
	chunkSize int,
	subChunks int,
) (*FFT, error) {
	if inRate == 0 || outRate == 0 {
		return nil, fmt.Errorf("%w: invalid sample rates %d -> %d", ErrConstruction, inRate, outRate)
	}
	if chunkSize <= 0 || subChunks <= 0 {
		return nil, fmt.Errorf("%w: invalid chunk size %d split into %d sub-chunks", ErrConstruction, chunkSize, subChunks)
	}

	gcd := greatestCommonDivisor(uint64(inRate), uint64(outRate))
	minChunkIn := int(uint64(inRate) / gcd)
	minChunkOut := int(uint64(outRate) / gcd)
	wantedSubSize := max(chunkSize/subChunks, 1)
	fftChunks := (wantedSubSize + minChunkIn - 1) / minChunkIn

	r := &FFT{
		inRate:     inRate,
		outRate:    outRate,
		subChunks:  subChunks,
		fftSizeIn:  fftChunks * minChunkIn,
		fftSizeOut: fftChunks * minChunkOut,
	}
	if r.fftSizeOut < 1 {
		return nil, fmt.Errorf("%w: the output block is empty for %d -> %d", ErrConstruction, inRate, outRate)
	}

	filter := lowPassFilter(r.fftSizeIn, r.cutoff())
	r.filterSpectre = make([]complex128, 2*r.fftSizeIn)
	for idx, v := range filter {
		r.filterSpectre[idx] = complex(v, 0)
	}
	var err error
	r.filterSpectre, err = forwardFFT(r.filterSpectre)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to transform the filter: %w", ErrConstruction, err)
	}

	r.overlap = make([]float64, r.fftSizeOut)
	r.spectre = make([]complex128, 2*r.fftSizeIn)
	r.outBuf = make([]complex128, 2*r.fftSizeOut)
	return r, nil
}

func (r *FFT) cutoff() float64 {
	cutoff := math.Pow(0.4, 16/float64(r.fftSizeIn))
	if r.fftSizeOut < r.fftSizeIn {
		cutoff *= float64(r.fftSizeOut) / float64(r.fftSizeIn)
	}
	return cutoff
}

// Ratio is outRate/inRate.
func (r *FFT) Ratio() float64 {
	return float64(r.outRate) / float64(r.inRate)
}

// OutputFramesFor returns ceil(inputFrames*ratio).
func (r *FFT) OutputFramesFor(inputFrames int) int {
	return int((uint64(inputFrames)*uint64(r.outRate) + uint64(r.inRate) - 1) / uint64(r.inRate))
}

// InputFramesNext is the exact amount of frames the next Process call expects.
func (r *FFT) InputFramesNext() int {
	return r.fftSizeIn * r.subChunks
}

// OutputFramesNext is the exact amount of frames the next Process call returns.
func (r *FFT) OutputFramesNext() int {
	return r.fftSizeOut * r.subChunks
}

// Reset forgets the overlap state, so the next Process call starts a new signal.
func (r *FFT) Reset() {
	clear(r.overlap)
}

// Process resamples exactly InputFramesNext() samples and appends
// exactly OutputFramesNext() samples to dst.
func (r *FFT) Process(
	dst []float32,
	in []float32,
) ([]float32, error) {
	if len(in) != r.InputFramesNext() {
		return dst, fmt.Errorf("%w: expected %d input frames, received %d", ErrProcessing, r.InputFramesNext(), len(in))
	}

	for subIdx := 0; subIdx < r.subChunks; subIdx++ {
		var err error
		dst, err = r.processSubChunk(dst, in[subIdx*r.fftSizeIn:(subIdx+1)*r.fftSizeIn])
		if err != nil {
			return dst, fmt.Errorf("%w: sub-chunk %d: %w", ErrProcessing, subIdx, err)
		}
	}
	return dst, nil
}

func (r *FFT) processSubChunk(
	dst []float32,
	in []float32,
) ([]float32, error) {
	for idx, v := range in {
		r.spectre[idx] = complex(float64(v), 0)
	}
	clear(r.spectre[len(in):])

	spectre, err := forwardFFT(r.spectre)
	if err != nil {
		return dst, fmt.Errorf("unable to perform the forward transform: %w", err)
	}

	// Truncating or zero-extending the spectrum changes the rate; the gain
	// compensates the different transform sizes.
	gain := complex(float64(r.fftSizeOut)/float64(r.fftSizeIn), 0)
	clear(r.outBuf)
	bins := min(r.fftSizeIn, r.fftSizeOut)
	for k := 0; k < bins; k++ {
		v := spectre[k] * r.filterSpectre[k] * gain
		r.outBuf[k] = v
		if k > 0 {
			r.outBuf[len(r.outBuf)-k] = cmplx.Conj(v)
		}
	}

	outBuf, err := inverseFFT(r.outBuf)
	if err != nil {
		return dst, fmt.Errorf("unable to perform the inverse transform: %w", err)
	}

	for idx := 0; idx < r.fftSizeOut; idx++ {
		dst = append(dst, float32(real(outBuf[idx])+r.overlap[idx]))
		r.overlap[idx] = real(outBuf[r.fftSizeOut+idx])
	}
	return dst, nil
}

// lowPassFilter returns a windowed-sinc filter normalized to the unity gain at DC.
// The cutoff is relative to the Nyquist frequency.
func lowPassFilter(size int, cutoff float64) []float64 {
	filter := make([]float64, size)
	center := float64(size-1) / 2
	window := blackmanHarris(size)
	var sum float64
	for idx := range filter {
		x := (float64(idx) - center) * cutoff
		v := sinc(x) * window[idx] * window[idx]
		filter[idx] = v
		sum += v
	}
	for idx := range filter {
		filter[idx] /= sum
	}
	return filter
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func blackmanHarris(size int) []float64 {
	window := make([]float64, size)
	if size == 1 {
		window[0] = 1
		return window
	}
	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	for idx := range window {
		phase := 2 * math.Pi * float64(idx) / float64(size-1)
		window[idx] = a0 - a1*math.Cos(phase) + a2*math.Cos(2*phase) - a3*math.Cos(3*phase)
	}
	return window
}

func greatestCommonDivisor(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// forwardFFT returns the unnormalized DFT of x. Radix-2 sizes are
// transformed in place, other sizes get a new slice.
func forwardFFT(x []complex128) ([]complex128, error) {
	if isPowerOfTwo(len(x)) {
		if err := fourier.Forward(x); err != nil {
			return nil, err
		}
		return x, nil
	}
	return fft.FFT(x), nil
}

// inverseFFT returns the normalized inverse DFT of x, which is consumed.
func inverseFFT(x []complex128) ([]complex128, error) {
	for idx, v := range x {
		x[idx] = cmplx.Conj(v)
	}
	y, err := forwardFFT(x)
	if err != nil {
		return nil, err
	}
	scale := 1 / float64(len(y))
	for idx, v := range y {
		y[idx] = cmplx.Conj(v) * complex(scale, 0)
	}
	return y, nil
}
