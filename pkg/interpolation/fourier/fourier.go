package fourier

import (
	"math"
	"sort"

	"github.com/brettbuddin/fourier"
	"github.com/xaionaro-go/voicecapture/pkg/interpolation"
)

const (
	// MaxWindowSize is the maximum number of samples analyzed on each side of a gap.
	MaxWindowSize = 1024

	// MinRequiredSamples is the minimum number of samples needed on each side
	// of the gap; with less context the gap is bridged linearly.
	MinRequiredSamples = 4

	// SieveSensitivity is how many times a spectral peak must exceed the
	// average magnitude to be extended into the gap.
	SieveSensitivity = 2.5

	// MinPeakRatio drops peaks weaker than this share of the strongest one.
	MinPeakRatio = 0.01

	// MaxPeaks is the maximum number of sinusoids extended into a gap.
	MaxPeaks = 16

	// refineIterations is the number of golden-section steps refining a
	// peak frequency within its bin.
	refineIterations = 24
)

type Interpolator struct {
	fallback interpolation.Interpolator
}

var _ interpolation.Interpolator = (*Interpolator)(nil)

func New() *Interpolator {
	return &Interpolator{
		fallback: interpolation.NewLinear(),
	}
}

// Interpolate fills a gap by extending the tonal components on both sides
// into it.
//
// The windows adjacent to the gap (a power of two long, for the radix-2
// FFT) are analyzed with a Hann window, and only the peaks standing above
// the average magnitude are kept, which drops stochastic noise. Each peak
// frequency is refined below the bin resolution, and its amplitude and
// phase are least-squares fitted on the real samples. The sinusoids are
// continued forward from the past and backward from the future, the two
// projections are cross-faded with a smoothstep (3t^2 - 2t^3), and a linear
// correction removes the mismatch against the real samples at both edges.
// The result never exceeds the peak level of the context.
func (i *Interpolator) Interpolate(before, after []float32, gapLen int) []float32 {
	if gapLen <= 0 {
		return []float32{}
	}
	if len(before) < MinRequiredSamples || len(after) < MinRequiredSamples {
		return i.fallback.Interpolate(before, after, gapLen)
	}

	n := largestPowerOfTwo(min(len(before), MaxWindowSize, len(after)))
	windowBefore := before[len(before)-n:]
	windowAfter := after[:n]

	past := analyze(windowBefore)
	future := analyze(windowAfter)
	if past == nil || future == nil {
		return i.fallback.Interpolate(before, after, gapLen)
	}

	// forward[0] and backward[gapLen] are the projections onto the known
	// samples adjacent to the gap.
	forward := past.project(n-1, gapLen+1)
	backward := future.project(-gapLen, gapLen+1)
	startDiff := forward[0] - float64(windowBefore[n-1])
	endDiff := backward[gapLen] - float64(windowAfter[0])
	limit := math.Max(past.peakLevel, future.peakLevel)

	result := make([]float32, gapLen)
	for idx := range gapLen {
		t := float64(idx+1) / float64(gapLen+1)
		w := t * t * (3 - 2*t)

		val := (1-w)*forward[idx+1] + w*backward[idx]
		val -= (1-w)*startDiff + w*endDiff
		result[idx] = float32(math.Max(-limit, math.Min(limit, val)))
	}
	return result
}

func largestPowerOfTwo(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

type sinusoid struct {
	omega float64 // radians per sample
	cos   float64
	sin   float64
}

type model struct {
	dc        float64
	sinusoids []sinusoid
	peakLevel float64
}

// project evaluates the model at sample positions start..start+count-1,
// relative to the beginning of the analyzed window.
func (m *model) project(start, count int) []float64 {
	result := make([]float64, count)
	for idx := range result {
		t := float64(start + idx)
		sum := m.dc
		for _, s := range m.sinusoids {
			sin, cos := math.Sincos(s.omega * t)
			sum += s.cos*cos + s.sin*sin
		}
		result[idx] = math.Max(-m.peakLevel, math.Min(m.peakLevel, sum))
	}
	return result
}

func analyze(samples []float32) *model {
	n := len(samples)
	m := &model{}

	residual := make([]float64, n)
	for _, v := range samples {
		m.dc += float64(v)
		m.peakLevel = math.Max(m.peakLevel, math.Abs(float64(v)))
	}
	m.dc /= float64(n)
	for idx, v := range samples {
		residual[idx] = float64(v) - m.dc
	}

	coeffs := make([]complex128, n)
	for idx, v := range residual {
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(idx)/float64(n))
		coeffs[idx] = complex(v*hann, 0)
	}
	if err := fourier.Forward(coeffs); err != nil {
		return nil
	}

	half := n / 2
	magnitudes := make([]float64, half)
	var threshold float64
	for idx := range magnitudes {
		magnitudes[idx] = math.Hypot(real(coeffs[idx]), imag(coeffs[idx]))
		threshold += magnitudes[idx]
	}
	threshold = threshold / float64(half) * SieveSensitivity

	var peaks []int
	for idx := 1; idx < half-1; idx++ {
		if magnitudes[idx] > threshold && magnitudes[idx] > magnitudes[idx-1] && magnitudes[idx] >= magnitudes[idx+1] {
			peaks = append(peaks, idx)
		}
	}
	sort.Slice(peaks, func(i, j int) bool {
		return magnitudes[peaks[i]] > magnitudes[peaks[j]]
	})

	var accepted []int
	for _, peak := range peaks {
		if len(accepted) >= MaxPeaks || magnitudes[peak] < magnitudes[peaks[0]]*MinPeakRatio {
			break
		}
		if nearAny(peak, accepted) {
			// a side lobe of a stronger peak
			continue
		}
		accepted = append(accepted, peak)

		omega := refineFrequency(residual, magnitudes, peak)
		c, s, _, ok := fitSinusoid(residual, omega)
		if !ok {
			continue
		}
		for idx := range residual {
			sin, cos := math.Sincos(omega * float64(idx))
			residual[idx] -= c*cos + s*sin
		}
		m.sinusoids = append(m.sinusoids, sinusoid{omega: omega, cos: c, sin: s})
	}
	return m
}

func nearAny(peak int, others []int) bool {
	for _, other := range others {
		if peak-other <= 2 && other-peak <= 2 {
			return true
		}
	}
	return false
}

// refineFrequency estimates the peak frequency by a parabola through the
// log magnitudes of the neighbouring bins and then maximizes the energy of
// the fitted sinusoid within half a bin around the estimate.
func refineFrequency(residual []float64, magnitudes []float64, peak int) float64 {
	n := float64(len(residual))
	alpha := math.Log(magnitudes[peak-1] + 1e-12)
	beta := math.Log(magnitudes[peak] + 1e-12)
	gamma := math.Log(magnitudes[peak+1] + 1e-12)
	var delta float64
	if denom := alpha - 2*beta + gamma; denom != 0 {
		delta = math.Max(-0.5, math.Min(0.5, 0.5*(alpha-gamma)/denom))
	}
	center := (float64(peak) + delta) / n

	energy := func(freq float64) float64 {
		_, _, e, ok := fitSinusoid(residual, 2*math.Pi*freq)
		if !ok {
			return -1
		}
		return e
	}

	ratio := (math.Sqrt(5) - 1) / 2
	lo, hi := center-0.5/n, center+0.5/n
	x1, x2 := hi-ratio*(hi-lo), lo+ratio*(hi-lo)
	e1, e2 := energy(x1), energy(x2)
	for range refineIterations {
		if e1 < e2 {
			lo, x1, e1 = x1, x2, e2
			x2 = lo + ratio*(hi-lo)
			e2 = energy(x2)
		} else {
			hi, x2, e2 = x2, x1, e1
			x1 = hi - ratio*(hi-lo)
			e1 = energy(x1)
		}
	}
	return 2 * math.Pi * (lo + hi) / 2
}

// fitSinusoid returns the least-squares c*cos(omega*k) + s*sin(omega*k)
// approximation of samples and the energy it explains.
func fitSinusoid(samples []float64, omega float64) (c, s, energy float64, ok bool) {
	var scc, sss, scs, sxc, sxs float64
	for idx, v := range samples {
		sin, cos := math.Sincos(omega * float64(idx))
		scc += cos * cos
		sss += sin * sin
		scs += cos * sin
		sxc += v * cos
		sxs += v * sin
	}
	det := scc*sss - scs*scs
	if math.Abs(det) < 1e-9*scc*sss {
		return 0, 0, 0, false
	}
	c = (sxc*sss - sxs*scs) / det
	s = (sxs*scc - sxc*scs) / det
	return c, s, c*sxc + s*sxs, true
}
