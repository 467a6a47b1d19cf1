package device

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// FilterParams are the per-sample parameter streams of a Filter.
type FilterParams[T core.Float] struct {
	// Cutoff as a fractional MIDI note number.
	Cutoff []T
	// Resonance in [0, 1). Values above ResMax are clamped.
	Resonance []T
}

// FilterOutput holds the simultaneous outputs of one Filter call.
type FilterOutput[T any] struct {
	Low  []T
	Band []T
	High []T
}

// Filter is a two-pole topology-preserving state-variable filter with low,
// band and high pass outputs.
//
// The prewarped gain tan(π·fc/fs) is recomputed for every sample since the
// cutoff may be modulated at audio rate.
type Filter[T core.Float] struct {
	piOverFs float64
	maxOmega float64

	low  [BufferSize]T
	band [BufferSize]T
	high [BufferSize]T

	lowZ  T
	bandZ T
}

// NewFilter returns a filter running at the context's sample rate.
func NewFilter[T core.Float](ctx core.Context) *Filter[T] {
	return &Filter[T]{
		piOverFs: math.Pi / ctx.SampleRate(),
		// Keep the prewarp angle below π/2 when the cutoff exceeds Nyquist.
		maxOmega: 0.49 * math.Pi,
	}
}

// Reset clears the integrator state.
func (f *Filter[T]) Reset() {
	f.lowZ, f.bandZ = 0, 0
}

func (f *Filter[T]) prewarpedGain(note T) T {
	omega := f.piOverFs * float64(core.MidiNoteToFrequency(note))
	if omega > f.maxOmega {
		omega = f.maxOmega
	}
	return T(math.Tan(omega))
}

// Process filters input. The returned views have length
// min(len(input), len(Cutoff), len(Resonance), BufferSize).
func (f *Filter[T]) Process(input []T, p FilterParams[T]) FilterOutput[T] {
	n := core.MinLen(len(input), len(p.Cutoff), len(p.Resonance))
	resMax := T(ResMax)
	for i := 0; i < n; i++ {
		r := p.Resonance[i]
		if r > resMax {
			r = resMax
		}
		res := 1 - r
		gain := f.prewarpedGain(p.Cutoff[i])
		denom := gain*gain + 2*res*gain + 1

		high := (input[i] - (2*res+gain)*f.bandZ - f.lowZ) / denom
		bandGain := gain * high
		band := bandGain + f.bandZ
		f.bandZ = core.FlushDenormals(band + bandGain)

		lowGain := gain * band
		low := lowGain + f.lowZ
		f.lowZ = core.FlushDenormals(low + lowGain)

		f.high[i], f.band[i], f.low[i] = high, band, low
	}
	return FilterOutput[T]{Low: f.low[:n], Band: f.band[:n], High: f.high[:n]}
}

// FilterParamsFxP are the per-sample parameter streams of a FilterFxP.
type FilterParamsFxP struct {
	Cutoff    []fixed.Note
	Resonance []fixed.Scalar
}

// FilterFxP is the fixed-point state-variable filter. Its signal flow matches
// Filter; the division is replaced by a reciprocal approximation and every
// widening multiply is followed by a saturating narrowing.
//
// The fixed-point tangent loses accuracy above about half Nyquist, so high
// cutoffs sit somewhat lower than in the float filter.
type FilterFxP struct {
	rate fixed.Rate

	low  [BufferSize]fixed.Sample
	band [BufferSize]fixed.Sample
	high [BufferSize]fixed.Sample

	lowZ  fixed.State
	bandZ fixed.State
}

// ResMaxFxP is the fixed-point resonance ceiling.
const ResMaxFxP fixed.Scalar = 0xF000

// NewFilterFxP returns a fixed-point filter for the context's sample rate.
func NewFilterFxP(ctx core.ContextFxP) *FilterFxP {
	return &FilterFxP{rate: ctx.Rate()}
}

// Reset clears the integrator state.
func (f *FilterFxP) Reset() {
	f.lowZ, f.bandZ = 0, 0
}

func (f *FilterFxP) prewarpedGain(n fixed.Note) fixed.Gain {
	return fixed.Tan(f.rate.Omega(fixed.NoteToFrequency(n)))
}

// Process filters input with the same length rule as Filter.Process.
func (f *FilterFxP) Process(input []fixed.Sample, p FilterParamsFxP) FilterOutput[fixed.Sample] {
	n := core.MinLen(len(input), len(p.Cutoff), len(p.Resonance))
	for i := 0; i < n; i++ {
		res := p.Resonance[i].Clamp(ResMaxFxP).Complement()
		gain := f.prewarpedGain(p.Cutoff[i])

		// k = gain² + 2·res·gain in U3F29.
		gain2 := (uint32(gain) * uint32(gain)) >> 1
		gainR := (uint32(res) * uint32(gain)) >> 2
		denomInv, shift := fixed.OneOverOnePlus(gain2 + gainR<<1)

		// (2·res + gain) in U3F13 times band_z gives an I7F25 feedback term.
		gainPlus2r := uint16((uint32(res)<<14 + uint32(gain)<<14) >> 16)
		feedback := int64(gainPlus2r) * int64(f.bandZ.Narrow())
		highNum := fixed.SaturateSample(
			int64(input[i].Widen())-feedback>>(25-fixed.StateFrac)-int64(f.lowZ),
			fixed.StateFrac,
		)
		high := fixed.SaturateSample(int64(denomInv.WideMulSigned(highNum))>>shift, 27)

		bandGain := int64(gain.WideMulSigned(high)) >> (27 - fixed.StateFrac)
		band := fixed.SaturateState(bandGain+int64(f.bandZ), fixed.StateFrac)
		f.bandZ = fixed.SaturateState(int64(band)+bandGain, fixed.StateFrac)
		bandOut := band.Narrow()

		lowGain := int64(gain.WideMulSigned(bandOut)) >> (27 - fixed.StateFrac)
		low := fixed.SaturateState(lowGain+int64(f.lowZ), fixed.StateFrac)
		f.lowZ = fixed.SaturateState(int64(low)+lowGain, fixed.StateFrac)

		f.high[i], f.band[i], f.low[i] = high, bandOut, low.Narrow()
	}
	return FilterOutput[fixed.Sample]{Low: f.low[:n], Band: f.band[:n], High: f.high[:n]}
}
