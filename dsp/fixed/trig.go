package fixed

import "math"

// Taylor coefficients of tan in U0F32 (the x^1 term is implicit).
const (
	tanC3 = 0x55555555 // 1/3
	tanC5 = 0x22222222 // 2/15
	tanC7 = 0x0DD0DD0E // 17/315
)

// Tan approximates tan(omega) for omega in [0, 1) radians.
//
// The odd polynomial x + x^3/3 + 2x^5/15 + 17x^7/315 is exact to within a
// fraction of a percent below omega ≈ 0.6 and undershoots by up to ~2.5% as
// omega approaches 1. For the filter prewarp omega = π·fc/fs, so the error
// grows above about half Nyquist; this is an accepted inaccuracy of the
// fixed-point filter.
func Tan(omega Scalar) Gain {
	x := uint64(omega) << 16 // U0F32
	x2 := (x * x) >> 32
	p := tanC5 + ((x2 * tanC7) >> 32)
	p = tanC3 + ((x2 * p) >> 32)
	p = (1 << 32) + ((x2 * p) >> 32) // U1F32, < 2^33
	t := (x * (p >> 1)) >> 31        // U1F32
	return Gain(saturateU16(int64(t >> (32 - GainFrac))))
}

const (
	sinTableBits = 8
	sinTableSize = 1 << sinTableBits
)

var sinTable [sinTableSize + 1]Sample

func init() {
	for i := range sinTable {
		sinTable[i] = SampleFromFloat(math.Sin(2 * math.Pi * float64(i) / sinTableSize))
	}
}

// Sin returns sin(2π·phase/2^32) as a Sample using a 256-entry table with
// linear interpolation.
func Sin(phase uint32) Sample {
	idx := phase >> (32 - sinTableBits)
	frac := int32((phase >> (32 - sinTableBits - 16)) & 0xFFFF)
	a := int32(sinTable[idx])
	b := int32(sinTable[idx+1])
	return Sample(a + (((b - a) * frac) >> 16))
}
