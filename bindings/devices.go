package bindings

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// NewFilter creates a float32 filter. It returns 0 for an invalid rate.
func NewFilter(sampleRate float64) Handle {
	ctx, err := core.NewContext(sampleRate)
	if err != nil {
		return 0
	}
	return register(device.NewFilter[float32](ctx))
}

// NewFilterFxP creates a fixed-point filter. It returns 0 when the rate has
// no fixed-point constants.
func NewFilterFxP(sampleRate uint32) Handle {
	ctx, ok := core.MaybeNewContextFxP(sampleRate)
	if !ok {
		return 0
	}
	return register(device.NewFilterFxP(ctx))
}

// NewAmp creates a float32 amplifier.
func NewAmp() Handle { return register(device.NewAmp[float32]()) }

// NewAmpFxP creates a fixed-point amplifier.
func NewAmpFxP() Handle { return register(device.NewAmpFxP()) }

// FilterProcess runs the filter over input[offset:offset+samples] and copies
// the three responses to low, band and high at offset.
func FilterProcess(h Handle, samples int, input, cutoff, resonance, low, band, high []float32, offset int) int32 {
	if anyNil(input, cutoff, resonance, low, band, high) {
		return StatusNull
	}
	f, st := lookup[*device.Filter[float32]](h)
	if st != 0 {
		return st
	}
	n, st := window(samples, offset, len(input), len(cutoff), len(resonance), len(low), len(band), len(high))
	if st != 0 {
		return st
	}
	end := offset + n
	out := f.Process(input[offset:end], device.FilterParams[float32]{
		Cutoff:    cutoff[offset:end],
		Resonance: resonance[offset:end],
	})
	core.CopyInto(low[offset:], out.Low)
	core.CopyInto(band[offset:], out.Band)
	core.CopyInto(high[offset:], out.High)
	return int32(len(out.Low))
}

// FilterFxPProcess is FilterProcess for the fixed-point filter.
func FilterFxPProcess(h Handle, samples int, input []fixed.Sample, cutoff []fixed.Note,
	resonance []fixed.Scalar, low, band, high []fixed.Sample, offset int,
) int32 {
	if input == nil || cutoff == nil || resonance == nil || anyNil(low, band, high) {
		return StatusNull
	}
	f, st := lookup[*device.FilterFxP](h)
	if st != 0 {
		return st
	}
	n, st := window(samples, offset, len(input), len(cutoff), len(resonance), len(low), len(band), len(high))
	if st != 0 {
		return st
	}
	end := offset + n
	out := f.Process(input[offset:end], device.FilterParamsFxP{
		Cutoff:    cutoff[offset:end],
		Resonance: resonance[offset:end],
	})
	core.CopyInto(low[offset:], out.Low)
	core.CopyInto(band[offset:], out.Band)
	core.CopyInto(high[offset:], out.High)
	return int32(len(out.Low))
}

// AmpProcess scales input by gain into out, all at offset.
func AmpProcess(h Handle, samples int, input, gain, out []float32, offset int) int32 {
	if anyNil(input, gain, out) {
		return StatusNull
	}
	a, st := lookup[*device.Amp[float32]](h)
	if st != 0 {
		return st
	}
	n, st := window(samples, offset, len(input), len(gain), len(out))
	if st != 0 {
		return st
	}
	res := a.Process(input[offset:offset+n], gain[offset:offset+n])
	return int32(core.CopyInto(out[offset:], res))
}

// AmpFxPProcess is AmpProcess for the fixed-point amplifier.
func AmpFxPProcess(h Handle, samples int, input []fixed.Sample, gain []fixed.USample, out []fixed.Sample, offset int) int32 {
	if gain == nil || anyNil(input, out) {
		return StatusNull
	}
	a, st := lookup[*device.AmpFxP](h)
	if st != 0 {
		return st
	}
	n, st := window(samples, offset, len(input), len(gain), len(out))
	if st != 0 {
		return st
	}
	res := a.Process(input[offset:offset+n], gain[offset:offset+n])
	return int32(core.CopyInto(out[offset:], res))
}
