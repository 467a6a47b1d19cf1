package modmatrix

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// SlotsPerSource is the number of routing slots owned by each source.
const SlotsPerSource = 4

// Slot routes its source to Dest scaled by Weight.
type Slot struct {
	Dest   Dest
	Weight float64

	weightFxP fixed.Weight
}

// Matrix is a fixed table of SlotsPerSource slots per source. The zero value
// routes nothing. Matrix is a plain value and is copied by assignment.
//
// SetSlot validates edits; resolution applies whatever is stored.
type Matrix struct {
	slots [NumSrc][SlotsPerSource]Slot
}

// New returns an empty matrix.
func New() *Matrix {
	return &Matrix{}
}

// Slot returns slot i of src.
func (m *Matrix) Slot(src Src, i int) (Slot, error) {
	if !src.Valid() {
		return Slot{}, fmt.Errorf("%w: %d", ErrSource, src)
	}
	if i < 0 || i >= SlotsPerSource {
		return Slot{}, fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	return m.slots[src][i], nil
}

// SetSlot routes slot i of src to dest with weight. Slots after the first
// only accept secondary destinations. On error the matrix is unchanged.
func (m *Matrix) SetSlot(src Src, i int, dest Dest, weight float64) error {
	switch {
	case !src.Valid():
		return fmt.Errorf("%w: %d", ErrSource, src)
	case i < 0 || i >= SlotsPerSource:
		return fmt.Errorf("%w: %d", ErrSlotIndex, i)
	case !dest.Valid():
		return fmt.Errorf("%w: %d", ErrDest, dest)
	case math.IsNaN(weight) || weight < -1 || weight > 1:
		return fmt.Errorf("%w: %v", ErrWeightRange, weight)
	case i > 0 && !dest.Secondary():
		return fmt.Errorf("%w: %s in slot %d", ErrPrimaryOnly, dest, i)
	}
	m.slots[src][i] = Slot{Dest: dest, Weight: weight, weightFxP: fixed.WeightFromFloat(weight)}
	return nil
}

// Resolve writes into dst, for every destination, the sum of
// src[s]·weight over the slots routed to it. DestNone always resolves to 0.
func Resolve[T core.Float](m *Matrix, src *[NumSrc]T, dst *[NumDest]T) {
	*dst = [NumDest]T{}
	for s := range m.slots {
		v := src[s]
		if v == 0 {
			continue
		}
		for _, sl := range m.slots[s] {
			dst[sl.Dest] += v * T(sl.Weight)
		}
	}
	dst[DestNone] = 0
}

// ResolveFxP is Resolve for fixed-point sources. Products are I5F27 and are
// accumulated at 64 bits before a single saturating narrowing to I4F12.
func ResolveFxP(m *Matrix, src *[NumSrc]fixed.Sample, dst *[NumDest]fixed.Sample) {
	var acc [NumDest]int64
	for s := range m.slots {
		v := src[s]
		if v == 0 {
			continue
		}
		for _, sl := range m.slots[s] {
			acc[sl.Dest] += int64(v.MulWeight(sl.weightFxP))
		}
	}
	for d := range acc {
		dst[d] = fixed.SaturateSample(acc[d], fixed.SampleFrac+fixed.WeightFrac)
	}
	dst[DestNone] = 0
}
