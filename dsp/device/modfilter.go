package device

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// FilterMode selects which Filter output a ModFilter returns.
type FilterMode uint8

const (
	LowPass FilterMode = iota
	BandPass
	HighPass
)

func (m FilterMode) String() string {
	switch m {
	case LowPass:
		return "lowpass"
	case BandPass:
		return "bandpass"
	case HighPass:
		return "highpass"
	default:
		return "unknown"
	}
}

// ParseFilterMode returns the mode named by s.
func ParseFilterMode(s string) (FilterMode, error) {
	for m := LowPass; m <= HighPass; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("device: unknown filter mode %q", s)
}

func selectOutput[T any](m FilterMode, out FilterOutput[T]) []T {
	switch m {
	case BandPass:
		return out.Band
	case HighPass:
		return out.High
	default:
		return out.Low
	}
}

// ModFilterParams drive a ModFilter.
type ModFilterParams[T core.Float] struct {
	// Env and Gate drive the filter's own envelope.
	Env  EnvParams[T]
	Gate []bool
	// Note is the played note used for keyboard tracking.
	Note []T
	// Cutoff is the base cutoff note.
	Cutoff []T
	// EnvMod in [-1, 1] scales the envelope's cutoff swing of EnvRange.
	EnvMod []T
	// KeyTrack in [0, 1]: 1 moves the cutoff one semitone per played semitone.
	KeyTrack  []T
	Resonance []T
}

func (p ModFilterParams[T]) len() int {
	return core.MinLen(len(p.Gate), len(p.Env.Attack), len(p.Env.Decay), len(p.Env.Sustain),
		len(p.Env.Release), len(p.Note), len(p.Cutoff), len(p.EnvMod), len(p.KeyTrack),
		len(p.Resonance))
}

// ModFilter composes a Filter with an envelope, an envelope amount and
// keyboard tracking. The effective cutoff is
// Cutoff + EnvMod·EnvRange·env + KeyTrack·(Note-KeyTrackCenter), clamped to
// [0, NoteMax].
type ModFilter[T core.Float] struct {
	env  *Env[T]
	filt *Filter[T]
	mode FilterMode

	cutoff [BufferSize]T
}

// NewModFilter returns a modulated filter at the context's sample rate.
func NewModFilter[T core.Float](ctx core.Context, mode FilterMode) *ModFilter[T] {
	return &ModFilter[T]{env: NewEnv[T](ctx), filt: NewFilter[T](ctx), mode: mode}
}

// SetMode selects the filter output.
func (m *ModFilter[T]) SetMode(mode FilterMode) { m.mode = mode }

// Env returns the filter envelope.
func (m *ModFilter[T]) Env() *Env[T] { return m.env }

// Reset clears the filter and envelope state.
func (m *ModFilter[T]) Reset() {
	m.env.Reset()
	m.filt.Reset()
}

// Process filters input and returns the selected output.
func (m *ModFilter[T]) Process(input []T, p ModFilterParams[T]) []T {
	n := core.MinLen(len(input), p.len())
	env := m.env.Process(EnvParams[T]{
		Attack: p.Env.Attack[:n], Decay: p.Env.Decay[:n],
		Sustain: p.Env.Sustain[:n], Release: p.Env.Release[:n],
	}, p.Gate[:n])

	cutoff := m.cutoff[:n]
	for i := range cutoff {
		c := p.Cutoff[i] + p.EnvMod[i]*EnvRange*env[i] + p.KeyTrack[i]*(p.Note[i]-KeyTrackCenter)
		cutoff[i] = core.Clamp(c, 0, T(NoteMax))
	}
	out := m.filt.Process(input[:n], FilterParams[T]{Cutoff: cutoff, Resonance: p.Resonance[:n]})
	return selectOutput(m.mode, out)
}

// ModFilterParamsFxP drive a ModFilterFxP.
type ModFilterParamsFxP struct {
	Env       EnvParamsFxP
	Gate      []bool
	Note      []fixed.Note
	Cutoff    []fixed.Note
	EnvMod    []fixed.Weight
	KeyTrack  []fixed.Scalar
	Resonance []fixed.Scalar
}

func (p ModFilterParamsFxP) len() int {
	return core.MinLen(len(p.Gate), len(p.Env.Attack), len(p.Env.Decay), len(p.Env.Sustain),
		len(p.Env.Release), len(p.Note), len(p.Cutoff), len(p.EnvMod), len(p.KeyTrack),
		len(p.Resonance))
}

// ModFilterFxP is the fixed-point modulated filter. The cutoff sum is formed
// in 64-bit U7F9 terms and saturated to the note range.
type ModFilterFxP struct {
	env  *EnvFxP
	filt *FilterFxP
	mode FilterMode

	cutoff [BufferSize]fixed.Note
}

// NewModFilterFxP returns a fixed-point modulated filter.
func NewModFilterFxP(ctx core.ContextFxP, mode FilterMode) *ModFilterFxP {
	return &ModFilterFxP{env: NewEnvFxP(ctx), filt: NewFilterFxP(ctx), mode: mode}
}

// SetMode selects the filter output.
func (m *ModFilterFxP) SetMode(mode FilterMode) { m.mode = mode }

// Env returns the filter envelope.
func (m *ModFilterFxP) Env() *EnvFxP { return m.env }

// Reset clears the filter and envelope state.
func (m *ModFilterFxP) Reset() {
	m.env.Reset()
	m.filt.Reset()
}

// Process filters input and returns the selected output.
func (m *ModFilterFxP) Process(input []fixed.Sample, p ModFilterParamsFxP) []fixed.Sample {
	n := core.MinLen(len(input), p.len())
	env := m.env.Process(EnvParamsFxP{
		Attack: p.Env.Attack[:n], Decay: p.Env.Decay[:n],
		Sustain: p.Env.Sustain[:n], Release: p.Env.Release[:n],
	}, p.Gate[:n])

	const center = int64(KeyTrackCenter) << fixed.NoteFrac
	cutoff := m.cutoff[:n]
	for i := range cutoff {
		// Weight·Scalar is I1F31; scale by EnvRange and drop to F9.
		envTerm := (int64(p.EnvMod[i]) * int64(env[i]) * EnvRange) >> (fixed.WeightFrac + fixed.ScalarFrac - fixed.NoteFrac)
		keyTerm := (int64(p.KeyTrack[i]) * (int64(p.Note[i]) - center)) >> fixed.ScalarFrac
		cutoff[i] = fixed.SaturateNote(int64(p.Cutoff[i])+envTerm+keyTerm, fixed.NoteFrac)
	}
	out := m.filt.Process(input[:n], FilterParamsFxP{Cutoff: cutoff, Resonance: p.Resonance[:n]})
	return selectOutput(m.mode, out)
}
