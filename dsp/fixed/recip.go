package fixed

import "math/bits"

const (
	recipTableBits = 6
	recipTableSize = 1 << recipTableBits
)

// recipTable[i] = 1 / (1 + i/64) in U1F15, i in [0, 64].
var recipTable [recipTableSize + 1]uint16

func init() {
	for i := range recipTable {
		x := 1 + float64(i)/recipTableSize
		recipTable[i] = uint16(float64(1<<GainFrac)/x + 0.5)
	}
}

// Reciprocal approximates 1/x for a non-zero raw integer x.
//
// The result is a mantissa in (0.5, 1] as U1F15 plus a shift such that
// 1/x ≈ mant * 2^-shift. The mantissa is read from a 64-segment table over
// [1, 2) with linear interpolation; error stays within 2 LSB of U1F15.
// x == 0 returns the largest representable mantissa with shift 0.
func Reciprocal(x uint64) (mant uint16, shift uint) {
	if x == 0 {
		return 1 << GainFrac, 0
	}
	lz := uint(bits.LeadingZeros64(x))
	xn := x << lz
	// xn/2^63 is in [1, 2); the bits after the leading one select the segment.
	idx := (xn >> (63 - recipTableBits)) & (recipTableSize - 1)
	frac := uint32((xn >> (63 - recipTableBits - 16)) & 0xFFFF)
	a := uint32(recipTable[idx])
	b := uint32(recipTable[idx+1])
	r := a - (((a - b) * frac) >> 16)
	return uint16(r), 78 - lz
}

// OneOverOnePlus returns 1/(1+k) for a U3F29 k as a U1F15 mantissa and a
// right shift: 1/(1+k) ≈ (mant >> shift) / 2^15. 1+k must stay below 8.
func OneOverOnePlus(k uint32) (Gain, uint) {
	mant, sh := Reciprocal(uint64(k) + 1<<29)
	// 1/(x*2^-29) = mant*2^-15 * 2^(44-sh); sh >= 44 for x >= 2^29.
	return Gain(mant), sh - 44
}
