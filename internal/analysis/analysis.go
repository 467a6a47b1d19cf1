// Package analysis measures the harmonic content of rendered audio.
package analysis

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultLowerHz = 20.0
	// Hann main lobe half-width in bins.
	captureBins = 2
)

// Report summarizes a spectrum.
type Report struct {
	// Fundamental is the strongest partial in Hz, refined by parabolic
	// interpolation between bins.
	Fundamental float64
	// Level is the summed magnitude around the fundamental.
	Level float64
	// Harmonics[k] is the level of harmonic k+2 relative to the
	// fundamental.
	Harmonics []float64
	// THD is the summed relative level of all harmonics below Nyquist.
	THD float64
	// Partials lists the strongest spectral peaks in Hz, loudest first.
	Partials []float64
}

// Analyze windows signal, transforms it and reports the fundamental, its
// harmonic series and up to maxPartials peaks.
func Analyze(signal []float64, sampleRate float64, maxPartials int) (Report, error) {
	if len(signal) < 2 {
		return Report{}, errors.New("analysis: signal too short")
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Report{}, errors.New("analysis: invalid sample rate")
	}
	mag, err := magnitudes(signal)
	if err != nil {
		return Report{}, err
	}
	fftSize := 2 * (len(mag) - 1)
	binHz := sampleRate / float64(fftSize)
	lower := clampInt(int(math.Round(defaultLowerHz/binHz)), 1, len(mag)-1)

	fund := lower
	for i := lower; i < len(mag); i++ {
		if mag[i] > mag[fund] {
			fund = i
		}
	}
	r := Report{
		Fundamental: refine(mag, fund) * binHz,
		Level:       binSum(mag, fund),
	}
	if r.Level > 0 {
		for k := 2; k*fund < len(mag)-captureBins; k++ {
			h := binSum(mag, k*fund) / r.Level
			r.Harmonics = append(r.Harmonics, h)
			r.THD += h
		}
	}
	for _, b := range peaks(mag, lower, maxPartials) {
		r.Partials = append(r.Partials, refine(mag, b)*binHz)
	}
	return r, nil
}

// magnitudes returns |X[k]| for k in [0, n/2] of the Hann-windowed signal
// zero-padded to a power of two.
func magnitudes(signal []float64) ([]float64, error) {
	n := nextPowerOf2(len(signal))
	in := make([]complex128, n)
	last := float64(len(signal) - 1)
	for i, x := range signal {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/last)
		in[i] = complex(x*w, 0)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}
	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range re {
		re[i], im[i] = real(out[i]), imag(out[i])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}

func binSum(mag []float64, bin int) float64 {
	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(mag)-1)
	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i]
	}
	return sum
}

// refine returns the interpolated peak position around bin.
func refine(mag []float64, bin int) float64 {
	if bin <= 0 || bin >= len(mag)-1 {
		return float64(bin)
	}
	a, b, c := mag[bin-1], mag[bin], mag[bin+1]
	den := a - 2*b + c
	if den == 0 {
		return float64(bin)
	}
	return float64(bin) + 0.5*(a-c)/den
}

// peaks returns up to k local maxima at or above lower, loudest first.
func peaks(mag []float64, lower, k int) []int {
	if k <= 0 {
		return nil
	}
	var out []int
	for i := max(lower, 1); i < len(mag)-1; i++ {
		if mag[i] <= mag[i-1] || mag[i] < mag[i+1] {
			continue
		}
		// Insertion into the descending top-k list.
		pos := len(out)
		for pos > 0 && mag[out[pos-1]] < mag[i] {
			pos--
		}
		if pos >= k {
			continue
		}
		out = append(out, 0)
		copy(out[pos+1:], out[pos:])
		out[pos] = i
		if len(out) > k {
			out = out[:k]
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
