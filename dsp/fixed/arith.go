package fixed

// SaturatingAdd returns a+b clamped to the Sample range.
func (s Sample) SaturatingAdd(o Sample) Sample {
	return Sample(saturate16(int64(s) + int64(o)))
}

// SaturatingSub returns a-b clamped to the Sample range.
func (s Sample) SaturatingSub(o Sample) Sample {
	return Sample(saturate16(int64(s) - int64(o)))
}

// SaturatingMul multiplies two I4F12 samples at full width (I8F24) and
// narrows back with saturation.
func (s Sample) SaturatingMul(o Sample) Sample {
	wide := int32(s) * int32(o)
	return Sample(saturate16(int64(wide >> SampleFrac)))
}

// MulUSample scales s by an unsigned gain and narrows with saturation.
func (s Sample) MulUSample(g USample) Sample {
	return Sample(saturate16((int64(s) * int64(g)) >> USampleFrac))
}

// MulScalar scales s by a unit scalar. |result| <= |s| so no saturation is needed.
func (s Sample) MulScalar(k Scalar) Sample {
	return Sample((int32(s) * int32(k)) >> ScalarFrac)
}

// MulWeight scales s by a signed weight and returns the unnarrowed I5F27 product.
func (s Sample) MulWeight(w Weight) int32 {
	return int32(s) * int32(w)
}

// SaturateSample narrows a value with frac fractional bits to a Sample.
func SaturateSample(v int64, frac uint) Sample {
	return Sample(saturate16(shiftFrac(v, frac, SampleFrac)))
}

// SaturateUSample narrows a value with frac fractional bits to a USample.
func SaturateUSample(v int64, frac uint) USample {
	return USample(saturateU16(shiftFrac(v, frac, USampleFrac)))
}

// SaturateScalar narrows a value with frac fractional bits to a Scalar.
func SaturateScalar(v int64, frac uint) Scalar {
	return Scalar(saturateU16(shiftFrac(v, frac, ScalarFrac)))
}

// SaturateNote narrows a value with frac fractional bits to a Note.
func SaturateNote(v int64, frac uint) Note {
	return Note(saturateU16(shiftFrac(v, frac, NoteFrac)))
}

// SaturateState narrows a value with frac fractional bits to a State.
func SaturateState(v int64, frac uint) State {
	return State(saturate32(shiftFrac(v, frac, StateFrac)))
}

// Widen returns s with StateFrac fractional bits.
func (s Sample) Widen() State {
	return State(int32(s) << (StateFrac - SampleFrac))
}

// Narrow saturates an integrator value to a Sample.
func (s State) Narrow() Sample {
	return SaturateSample(int64(s), StateFrac)
}

func shiftFrac(v int64, from, to uint) int64 {
	switch {
	case from > to:
		return v >> (from - to)
	case from < to:
		d := to - from
		if v > (1<<62)>>d || v < -(1<<62)>>d {
			if v > 0 {
				return 1 << 62
			}
			return -(1 << 62)
		}
		return v << d
	default:
		return v
	}
}

// Clamp limits a Scalar to max.
func (s Scalar) Clamp(max Scalar) Scalar {
	if s > max {
		return max
	}
	return s
}

// Complement returns 1 - s in U0F16, with ScalarMax standing in for one.
func (s Scalar) Complement() Scalar {
	return ScalarMax - s
}

// Sample converts a unit scalar to I4F12.
func (s Scalar) Sample() Sample {
	return Sample(int32(s) >> (ScalarFrac - SampleFrac))
}

// WideMulSigned multiplies an unsigned gain by a sample and returns the
// I5F27 product.
func (g Gain) WideMulSigned(s Sample) int32 {
	return int32(g) * int32(s)
}
