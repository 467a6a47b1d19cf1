// Package fixed implements the 16-bit fixed-point numeric domain used by the
// FxP device family.
//
// Every semantic quantity has its own format:
//
//	Sample    I4F12   audio sample, unity = 4096, headroom to ±8
//	USample   U4F12   unsigned sample, used for gains up to 16
//	Note      U7F9    MIDI note number with 9 fractional bits
//	Scalar    U0F16   unit scalar in [0, 1)
//	EnvParam  U3F13   envelope time in seconds
//	Gain      U1F15   prewarped filter gain
//	Weight    I1F15   signed modulation weight
//	Freq      U16F16  frequency in Hz
//	State     I12F20  filter integrator memory
//
// Arithmetic rules shared by all callers:
//   - narrow operands are widened to int32/int64 before any multiply;
//   - results narrowed back to a 16-bit format saturate instead of wrapping;
//   - divisions are replaced by Reciprocal, a table-driven normalized
//     reciprocal plus a shift applied after one wide multiply;
//   - Tan is a polynomial whose accuracy falls off above roughly half the
//     Nyquist frequency.
//
// Per-sample-rate constants are precomputed; see RateFor.
package fixed
