package device

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// OscParams are the per-sample parameter streams of an Osc.
type OscParams[T core.Float] struct {
	// Note is the pitch as a fractional MIDI note number.
	Note []T
	// Shape in [0, 1] narrows the square wave's pulse width from 50% to 5%.
	Shape []T
	// Sync, when non-nil, resets the phase on every true sample (hard sync).
	Sync []bool
}

// OscOutput holds the waveforms of one Osc call. Sync is true on every sample
// where the phase wrapped and can drive another oscillator's Sync input.
type OscOutput[T any] struct {
	Sine     []T
	Triangle []T
	Square   []T
	Saw      []T
	Sync     []bool
}

// Osc is a phase-accumulator oscillator evaluating four waveforms at once.
// Saw and square are band-limited with PolyBLEP residuals; sine and triangle
// are computed directly.
type Osc[T core.Float] struct {
	invFs float64
	phase float64

	sine     [BufferSize]T
	triangle [BufferSize]T
	square   [BufferSize]T
	saw      [BufferSize]T
	sync     [BufferSize]bool
}

// NewOsc returns an oscillator at the context's sample rate.
func NewOsc[T core.Float](ctx core.Context) *Osc[T] {
	return &Osc[T]{invFs: 1 / ctx.SampleRate()}
}

// Reset restarts the phase at zero.
func (o *Osc[T]) Reset() { o.phase = 0 }

// polyBLEP returns the band-limited step residual at normalized phase t for
// phase increment dt.
func polyBLEP(t, dt float64) float64 {
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// Process renders min(len(Note), len(Shape), len(Sync), BufferSize) samples;
// a nil Sync stream does not limit the length.
func (o *Osc[T]) Process(p OscParams[T]) OscOutput[T] {
	n := core.MinLen(len(p.Note), len(p.Shape), optLen(p.Sync))
	for i := 0; i < n; i++ {
		if p.Sync != nil && p.Sync[i] {
			o.phase = 0
		}
		dt := float64(core.MidiNoteToFrequency(p.Note[i])) * o.invFs
		if dt > 0.5 {
			dt = 0.5
		}
		t := o.phase

		o.sine[i] = T(math.Sin(2 * math.Pi * t))
		o.triangle[i] = T(4*math.Abs(t-0.5) - 1)
		o.saw[i] = T(2*t - 1 - polyBLEP(t, dt))

		pw := 0.5 - 0.45*core.Clamp(float64(p.Shape[i]), 0, 1)
		sq := -1.0
		if t < pw {
			sq = 1
		}
		t2 := t - pw
		if t2 < 0 {
			t2++
		}
		o.square[i] = T(sq + polyBLEP(t, dt) - polyBLEP(t2, dt))

		o.phase += dt
		o.sync[i] = o.phase >= 1
		if o.sync[i] {
			o.phase--
		}
	}
	return OscOutput[T]{
		Sine:     o.sine[:n],
		Triangle: o.triangle[:n],
		Square:   o.square[:n],
		Saw:      o.saw[:n],
		Sync:     o.sync[:n],
	}
}

// OscParamsFxP are the per-sample parameter streams of an OscFxP.
type OscParamsFxP struct {
	Note  []fixed.Note
	Shape []fixed.Scalar
	Sync  []bool
}

// OscFxP is the fixed-point oscillator. The phase is a U0F32 accumulator that
// wraps naturally on overflow.
type OscFxP struct {
	rate  fixed.Rate
	phase uint32

	sine     [BufferSize]fixed.Sample
	triangle [BufferSize]fixed.Sample
	square   [BufferSize]fixed.Sample
	saw      [BufferSize]fixed.Sample
	sync     [BufferSize]bool
}

// NewOscFxP returns a fixed-point oscillator for the context's sample rate.
func NewOscFxP(ctx core.ContextFxP) *OscFxP {
	return &OscFxP{rate: ctx.Rate()}
}

// Reset restarts the phase at zero.
func (o *OscFxP) Reset() { o.phase = 0 }

// pwScale is 0.45 in U0F16.
const pwScale = 29491

// polyBLEPFxP is polyBLEP for a U0F32 phase and increment, returning a
// Sample-scaled residual. Increments below 2^16 (well under 1 Hz) skip the
// correction.
func polyBLEPFxP(t, dt uint32) int32 {
	if dt < 1<<16 {
		return 0
	}
	mant, sh := fixed.Reciprocal(uint64(dt))
	switch {
	case t < dt:
		// x = t/dt in U0F16; residual -(1-x)².
		x := min((uint64(t)*uint64(mant))>>(sh-16), 1<<16)
		r := int64(1<<16) - int64(x)
		return -int32((r * r) >> (32 - fixed.SampleFrac))
	case -t < dt:
		// Just before the wrap: y = (1-t)/dt; residual (1-y)².
		y := min((uint64(-t)*uint64(mant))>>(sh-16), 1<<16)
		r := int64(1<<16) - int64(y)
		return int32((r * r) >> (32 - fixed.SampleFrac))
	}
	return 0
}

// Process renders samples with the same length rule as Osc.Process.
func (o *OscFxP) Process(p OscParamsFxP) OscOutput[fixed.Sample] {
	n := core.MinLen(len(p.Note), len(p.Shape), optLen(p.Sync))
	const one = int32(fixed.SampleOne)
	for i := 0; i < n; i++ {
		if p.Sync != nil && p.Sync[i] {
			o.phase = 0
		}
		dt := o.rate.PhaseIncrement(fixed.NoteToFrequency(p.Note[i]))
		t := o.phase

		o.sine[i] = fixed.Sin(t)
		tri := int32(t>>18) - 2*one
		if tri < 0 {
			tri = -tri
		}
		o.triangle[i] = fixed.Sample(tri - one)
		o.saw[i] = fixed.SaturateSample(int64(int32(t>>19)-one-polyBLEPFxP(t, dt)), fixed.SampleFrac)

		pw := uint32(1<<31) - uint32(uint64(p.Shape[i])*pwScale)
		sq := -one
		if t < pw {
			sq = one
		}
		sq += polyBLEPFxP(t, dt) - polyBLEPFxP(t-pw, dt)
		o.square[i] = fixed.SaturateSample(int64(sq), fixed.SampleFrac)

		next := t + dt
		o.sync[i] = next < t
		o.phase = next
	}
	return OscOutput[fixed.Sample]{
		Sine:     o.sine[:n],
		Triangle: o.triangle[:n],
		Square:   o.square[:n],
		Saw:      o.saw[:n],
		Sync:     o.sync[:n],
	}
}
