package modmatrix

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// Apply combines a base parameter value with a resolved contribution c
// following the convention of d. Multiplicative destinations never invert
// the base: the factor 1+c·scale is floored at zero.
func Apply[T core.Float](d Dest, base, c T) T {
	if d.Multiplicative() {
		return base * max(0, 1+c*T(d.Scale()))
	}
	return base + c*T(d.Scale())
}

// Offset returns the I4F12 contribution c times the scale of d as a raw
// fixed-point value with frac fractional bits. It is the additive part of
// Apply for the fixed-point voice.
func Offset(d Dest, c fixed.Sample, frac uint) int64 {
	v := int64(c) * int64(d.Scale())
	if frac >= fixed.SampleFrac {
		return v << (frac - fixed.SampleFrac)
	}
	return v >> (fixed.SampleFrac - frac)
}
