package fixed

import "math/bits"

// Rate holds the per-sample-rate constants the fixed-point devices need.
// They are precomputed offline because deriving them at runtime would need
// the floating-point math the fixed domain exists to avoid.
type Rate struct {
	// SampleRate in Hz.
	SampleRate uint32
	// OmegaScale is 4096·π/fs in U0F32; (Freq × OmegaScale) >> 44 yields the
	// prewarp angle π·f/fs in U0F16.
	OmegaScale uint32
	// PhaseScale is 2^48/fs; (Freq × PhaseScale) >> 32 yields a U0F32 phase
	// increment per sample.
	PhaseScale uint64
	// EnvScale is 2^44/fs; EnvScale / t_raw is the per-sample increment that
	// ramps a U1F31 level through full scale in t seconds (t in U3F13).
	EnvScale uint32
}

var rates = [...]Rate{
	{SampleRate: 44100, OmegaScale: 0x4ab2c92e, PhaseScale: 0x17c6f8c75, EnvScale: 0x17c6f8c7},
	{SampleRate: 48000, OmegaScale: 0x44a10f3c, PhaseScale: 0x15d867c3f, EnvScale: 0x15d867c4},
	{SampleRate: 88200, OmegaScale: 0x25596497, PhaseScale: 0xbe37c63b, EnvScale: 0x0be37c64},
	{SampleRate: 96000, OmegaScale: 0x2250879e, PhaseScale: 0xaec33e1f, EnvScale: 0x0aec33e2},
}

// RateFor returns the constants for sampleRate; ok is false when the rate
// has no precomputed table.
func RateFor(sampleRate uint32) (r Rate, ok bool) {
	for _, c := range rates {
		if c.SampleRate == sampleRate {
			return c, true
		}
	}
	return Rate{}, false
}

// SupportedRates lists every sample rate RateFor accepts.
func SupportedRates() []uint32 {
	out := make([]uint32, len(rates))
	for i, r := range rates {
		out[i] = r.SampleRate
	}
	return out
}

// Omega returns the prewarp angle π·f/fs in U0F16, saturating just below 1.
func (r Rate) Omega(f Freq) Scalar {
	w := (uint64(f) * uint64(r.OmegaScale)) >> 44
	if w > uint64(ScalarMax) {
		return ScalarMax
	}
	return Scalar(w)
}

// PhaseIncrement returns the U0F32 phase step for frequency f.
func (r Rate) PhaseIncrement(f Freq) uint32 {
	hi, lo := bits.Mul64(uint64(f), r.PhaseScale)
	if hi>>32 != 0 {
		return 1 << 31
	}
	inc := hi<<32 | lo>>32
	if inc > 1<<31 {
		// Cap at Nyquist.
		return 1 << 31
	}
	return uint32(inc)
}

// EnvIncrement returns the U1F31 per-sample level step that sweeps full
// scale in t seconds. t == 0 yields a full-scale step.
func (r Rate) EnvIncrement(t EnvParam) uint32 {
	if t == 0 {
		return 1 << 31
	}
	mant, sh := Reciprocal(uint64(t))
	inc := (uint64(r.EnvScale) * uint64(mant)) >> sh
	if inc > 1<<31 {
		return 1 << 31
	}
	if inc == 0 {
		return 1
	}
	return uint32(inc)
}
