package device

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// MixOscParams drive a MixOsc: the oscillator streams plus one level stream
// per waveform.
type MixOscParams[T core.Float] struct {
	Osc      OscParams[T]
	Sine     []T
	Triangle []T
	Square   []T
	Saw      []T
}

func (p MixOscParams[T]) len() int {
	return core.MinLen(len(p.Osc.Note), len(p.Osc.Shape), optLen(p.Osc.Sync),
		len(p.Sine), len(p.Triangle), len(p.Square), len(p.Saw))
}

// MixOsc is an Osc whose waveforms are blended by independent levels.
type MixOsc[T core.Float] struct {
	osc *Osc[T]
	out [BufferSize]T
}

// NewMixOsc returns a mixing oscillator at the context's sample rate.
func NewMixOsc[T core.Float](ctx core.Context) *MixOsc[T] {
	return &MixOsc[T]{osc: NewOsc[T](ctx)}
}

// Reset restarts the oscillator phase.
func (m *MixOsc[T]) Reset() { m.osc.Reset() }

// Process returns the mixed signal and the oscillator's sync flags.
func (m *MixOsc[T]) Process(p MixOscParams[T]) ([]T, []bool) {
	n := p.len()
	p.Osc.Note, p.Osc.Shape = p.Osc.Note[:n], p.Osc.Shape[:n]
	if p.Osc.Sync != nil {
		p.Osc.Sync = p.Osc.Sync[:n]
	}
	w := m.osc.Process(p.Osc)
	out := m.out[:n]
	for i := range out {
		out[i] = w.Sine[i]*p.Sine[i] + w.Triangle[i]*p.Triangle[i] +
			w.Square[i]*p.Square[i] + w.Saw[i]*p.Saw[i]
	}
	return out, w.Sync
}

// MixOscParamsFxP drive a MixOscFxP.
type MixOscParamsFxP struct {
	Osc      OscParamsFxP
	Sine     []fixed.Scalar
	Triangle []fixed.Scalar
	Square   []fixed.Scalar
	Saw      []fixed.Scalar
}

func (p MixOscParamsFxP) len() int {
	return core.MinLen(len(p.Osc.Note), len(p.Osc.Shape), optLen(p.Osc.Sync),
		len(p.Sine), len(p.Triangle), len(p.Square), len(p.Saw))
}

// MixOscFxP is the fixed-point mixing oscillator. The four weighted waveforms
// are accumulated at full width and saturated once.
type MixOscFxP struct {
	osc *OscFxP
	out [BufferSize]fixed.Sample
}

// NewMixOscFxP returns a fixed-point mixing oscillator.
func NewMixOscFxP(ctx core.ContextFxP) *MixOscFxP {
	return &MixOscFxP{osc: NewOscFxP(ctx)}
}

// Reset restarts the oscillator phase.
func (m *MixOscFxP) Reset() { m.osc.Reset() }

// Process returns the mixed signal and the oscillator's sync flags.
func (m *MixOscFxP) Process(p MixOscParamsFxP) ([]fixed.Sample, []bool) {
	n := p.len()
	p.Osc.Note, p.Osc.Shape = p.Osc.Note[:n], p.Osc.Shape[:n]
	if p.Osc.Sync != nil {
		p.Osc.Sync = p.Osc.Sync[:n]
	}
	w := m.osc.Process(p.Osc)
	out := m.out[:n]
	for i := range out {
		acc := int64(w.Sine[i])*int64(p.Sine[i]) +
			int64(w.Triangle[i])*int64(p.Triangle[i]) +
			int64(w.Square[i])*int64(p.Square[i]) +
			int64(w.Saw[i])*int64(p.Saw[i])
		out[i] = fixed.SaturateSample(acc, fixed.SampleFrac+fixed.ScalarFrac)
	}
	return out, w.Sync
}
