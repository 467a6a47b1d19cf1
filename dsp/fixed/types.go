package fixed

import "math"

// Fractional bit counts of each format.
const (
	SampleFrac   = 12
	USampleFrac  = 12
	NoteFrac     = 9
	ScalarFrac   = 16
	EnvParamFrac = 13
	GainFrac     = 15
	WeightFrac   = 15
	FreqFrac     = 16
	StateFrac    = 20
)

// Sample is a signed I4F12 audio sample.
type Sample int16

// USample is an unsigned U4F12 sample, used for gains.
type USample uint16

// Note is a U7F9 MIDI note number.
type Note uint16

// Scalar is a U0F16 value in [0, 1).
type Scalar uint16

// EnvParam is a U3F13 envelope time in seconds.
type EnvParam uint16

// Gain is a U1F15 prewarped filter gain.
type Gain uint16

// Weight is a signed I1F15 modulation weight.
type Weight int16

// Freq is a U16F16 frequency in Hz.
type Freq uint32

// State is an I12F20 integrator value.
type State int32

const (
	SampleZero Sample = 0
	SampleOne  Sample = 1 << SampleFrac
	SampleMax  Sample = math.MaxInt16
	SampleMin  Sample = math.MinInt16

	USampleOne USample = 1 << USampleFrac
	USampleMax USample = math.MaxUint16

	ScalarMax Scalar = math.MaxUint16
	NoteMax   Note   = math.MaxUint16

	WeightMax Weight = math.MaxInt16
	WeightMin Weight = math.MinInt16
)

func saturate16(v int64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func saturateU16(v int64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	if v < 0 {
		return 0
	}
	return uint16(v)
}

func saturate32(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// toRaw rounds f scaled by 2^frac, mapping NaN to zero.
func toRaw(f float64, frac uint) int64 {
	if math.IsNaN(f) {
		return 0
	}
	scaled := math.Round(f * float64(int64(1)<<frac))
	if scaled > math.MaxInt64/2 {
		return math.MaxInt64 / 2
	}
	if scaled < math.MinInt64/2 {
		return math.MinInt64 / 2
	}
	return int64(scaled)
}

// SampleFromFloat converts f to the nearest Sample, saturating.
func SampleFromFloat(f float64) Sample { return Sample(saturate16(toRaw(f, SampleFrac))) }

// Float returns s as a float64.
func (s Sample) Float() float64 { return float64(s) / (1 << SampleFrac) }

// USampleFromFloat converts f to the nearest USample, saturating to
// [0, USampleMax].
func USampleFromFloat(f float64) USample { return USample(saturateU16(toRaw(f, USampleFrac))) }

// Float returns u as a float64.
func (u USample) Float() float64 { return float64(u) / (1 << USampleFrac) }

// NoteFromFloat converts a MIDI note number to Note, saturating to [0, NoteMax].
func NoteFromFloat(f float64) Note { return Note(saturateU16(toRaw(f, NoteFrac))) }

// Float returns n as a float64 note number.
func (n Note) Float() float64 { return float64(n) / (1 << NoteFrac) }

// ScalarFromFloat converts f to the nearest Scalar, saturating to [0, ScalarMax].
func ScalarFromFloat(f float64) Scalar { return Scalar(saturateU16(toRaw(f, ScalarFrac))) }

// Float returns s as a float64 in [0, 1).
func (s Scalar) Float() float64 { return float64(s) / (1 << ScalarFrac) }

// EnvParamFromFloat converts seconds to EnvParam, saturating.
func EnvParamFromFloat(f float64) EnvParam { return EnvParam(saturateU16(toRaw(f, EnvParamFrac))) }

// Float returns e in seconds.
func (e EnvParam) Float() float64 { return float64(e) / (1 << EnvParamFrac) }

// Float returns g as a float64.
func (g Gain) Float() float64 { return float64(g) / (1 << GainFrac) }

// WeightFromFloat converts f to Weight; 1.0 saturates to WeightMax.
func WeightFromFloat(f float64) Weight { return Weight(saturate16(toRaw(f, WeightFrac))) }

// Float returns w as a float64.
func (w Weight) Float() float64 { return float64(w) / (1 << WeightFrac) }

// FreqFromFloat converts Hz to Freq, saturating.
func FreqFromFloat(f float64) Freq {
	v := toRaw(f, FreqFrac)
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return Freq(v)
}

// Float returns f in Hz.
func (f Freq) Float() float64 { return float64(f) / (1 << FreqFrac) }

// Float returns s as a float64.
func (s State) Float() float64 { return float64(s) / (1 << StateFrac) }
