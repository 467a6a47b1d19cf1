package device

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-vecmath"
)

// RingModParams are the level streams of a RingMod.
type RingModParams[T core.Float] struct {
	LevelA    []T
	LevelB    []T
	LevelRing []T
}

// RingMod mixes two signals together with their product:
// out = la·a + lb·b + lr·a·b.
type RingMod[T core.Float] struct {
	prod [BufferSize]T
	out  [BufferSize]T
}

// NewRingMod returns a ring modulator.
func NewRingMod[T core.Float]() *RingMod[T] {
	return &RingMod[T]{}
}

// Process mixes a and b.
func (r *RingMod[T]) Process(a, b []T, p RingModParams[T]) []T {
	n := core.MinLen(len(a), len(b), len(p.LevelA), len(p.LevelB), len(p.LevelRing))
	prod, out := r.prod[:n], r.out[:n]
	if o, ok := any(out).([]float64); ok && n > 0 {
		af, bf := any(a[:n]).([]float64), any(b[:n]).([]float64)
		pf := any(prod).([]float64)
		vecmath.MulBlock(pf, af, bf)
		vecmath.MulBlock(o, any(p.LevelRing[:n]).([]float64), pf)
		vecmath.MulAddBlock(o, any(p.LevelB[:n]).([]float64), bf, o)
		vecmath.MulAddBlock(o, any(p.LevelA[:n]).([]float64), af, o)
		return out
	}
	for i := range out {
		out[i] = p.LevelA[i]*a[i] + p.LevelB[i]*b[i] + p.LevelRing[i]*a[i]*b[i]
	}
	return out
}

// RingModParamsFxP are the level streams of a RingModFxP.
type RingModParamsFxP struct {
	LevelA    []fixed.Scalar
	LevelB    []fixed.Scalar
	LevelRing []fixed.Scalar
}

// RingModFxP is the fixed-point ring modulator.
type RingModFxP struct {
	out [BufferSize]fixed.Sample
}

// NewRingModFxP returns a fixed-point ring modulator.
func NewRingModFxP() *RingModFxP {
	return &RingModFxP{}
}

// Process mixes a and b; the sum is accumulated in I8F40 and saturated once.
func (r *RingModFxP) Process(a, b []fixed.Sample, p RingModParamsFxP) []fixed.Sample {
	n := core.MinLen(len(a), len(b), len(p.LevelA), len(p.LevelB), len(p.LevelRing))
	out := r.out[:n]
	const frac = fixed.SampleFrac*2 + fixed.ScalarFrac
	for i := range out {
		prod := int64(a[i]) * int64(b[i]) // I8F24
		acc := (int64(a[i])*int64(p.LevelA[i])+int64(b[i])*int64(p.LevelB[i]))<<fixed.SampleFrac +
			prod*int64(p.LevelRing[i])
		out[i] = fixed.SaturateSample(acc, frac)
	}
	return out
}
