// Package device provides the signal-processing devices of the synthesizer
// voice in both numeric domains.
//
// Every device has a floating-point variant generic over core.Float and a
// fixed-point twin suffixed FxP:
//   - Amp / AmpFxP: per-sample gain stage.
//   - Osc / OscFxP: phase-accumulator oscillator with sine, triangle, square
//     and saw outputs plus hard-sync flags.
//   - MixOsc / MixOscFxP: oscillator followed by a per-waveform level mixer.
//   - RingMod / RingModFxP: two-input mixer with a ring-modulated term.
//   - Filter / FilterFxP: two-pole state-variable filter with low, band and
//     high outputs.
//   - Env / EnvFxP: ADSR envelope generator driven by a gate stream.
//   - ModFilter / ModFilterFxP: filter whose cutoff is driven by its own
//     envelope, a modulation amount and keyboard tracking.
//   - LFO / LFOFxP: low-frequency modulation oscillator.
//
// Devices own fixed-capacity output buffers of BufferSize samples. A call
// processes n = min(len(every input), BufferSize) samples and returns views of
// length n into those buffers. The views stay valid until the next call on the
// same instance. Callers loop over longer inputs, advancing by n each time.
// Process never allocates.
package device
