package device

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-vecmath"
)

// Amp multiplies a signal by a per-sample gain.
type Amp[T core.Float] struct {
	out [BufferSize]T
}

// NewAmp returns an amplifier.
func NewAmp[T core.Float]() *Amp[T] {
	return &Amp[T]{}
}

// Process returns signal[i]*gain[i] for the common prefix of both inputs.
func (a *Amp[T]) Process(signal, gain []T) []T {
	n := core.MinLen(len(signal), len(gain))
	out := a.out[:n]
	if n == 0 {
		return out
	}
	if o, ok := any(out).([]float64); ok {
		vecmath.MulBlock(o, any(signal[:n]).([]float64), any(gain[:n]).([]float64))
		return out
	}
	for i := range out {
		out[i] = signal[i] * gain[i]
	}
	return out
}

// AmpFxP is the fixed-point amplifier. Gain is an unsigned sample: unity is
// 1.0 and values up to 16 boost.
type AmpFxP struct {
	out [BufferSize]fixed.Sample
}

// NewAmpFxP returns a fixed-point amplifier.
func NewAmpFxP() *AmpFxP {
	return &AmpFxP{}
}

// Process returns the saturating product of signal and gain.
func (a *AmpFxP) Process(signal []fixed.Sample, gain []fixed.USample) []fixed.Sample {
	n := core.MinLen(len(signal), len(gain))
	out := a.out[:n]
	for i := range out {
		out[i] = signal[i].MulUSample(gain[i])
	}
	return out
}
