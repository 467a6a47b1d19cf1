package voice

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/modmatrix"
)

// OscParams configure one mixing oscillator.
type OscParams struct {
	// Coarse is the pitch offset in semitones, Fine in cents.
	Coarse float64
	Fine   float64
	// Shape in [0, 1] narrows the square pulse width.
	Shape float64
	// Waveform levels in [0, 1].
	Sine     float64
	Triangle float64
	Square   float64
	Saw      float64
}

// RingModParams are the levels of oscillator 1, oscillator 2 and their
// product in the mixer.
type RingModParams struct {
	Osc1 float64
	Osc2 float64
	Ring float64
}

// FilterParams configure the modulated filter.
type FilterParams struct {
	Mode device.FilterMode
	// Cutoff is a MIDI note number.
	Cutoff    float64
	Resonance float64
	// EnvMod in [-1, 1] scales the filter envelope's cutoff swing.
	EnvMod float64
	// KeyTrack in [0, 1].
	KeyTrack float64
}

// LFOParams configure one LFO. Rate is in Hz; Depth in [0, 1].
type LFOParams struct {
	Wave  device.LFOWave
	Rate  float64
	Depth float64
}

// EnvParams configure one ADSR. Times are seconds, Sustain a level in [0, 1].
type EnvParams struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Params is the complete, domain-neutral voice configuration. It is decoded
// by host glue and treated as immutable once handed to an allocator; both
// float and fixed voices derive their device parameters from it.
type Params struct {
	Osc1 OscParams
	Osc2 OscParams
	// Sync hard-syncs oscillator 2 to oscillator 1.
	Sync bool
	Ring RingModParams

	Filter FilterParams
	LFO1   LFOParams
	LFO2   LFOParams

	EnvVCF EnvParams
	EnvVCA EnvParams
	Env1   EnvParams
	Env2   EnvParams

	// Glide is the portamento time constant in seconds; 0 disables glide.
	Glide float64
	// Gain is the output level in [0, 2].
	Gain float64

	Matrix modmatrix.Matrix
}

// DefaultParams returns an audible init patch: a saw through a half-open
// low-pass filter with a short plucked filter envelope.
func DefaultParams() *Params {
	return &Params{
		Osc1: OscParams{Saw: 1},
		Osc2: OscParams{Coarse: -12, Square: 1, Shape: 0.25},
		Ring: RingModParams{Osc1: 0.7, Osc2: 0.3},
		Filter: FilterParams{
			Mode:      device.LowPass,
			Cutoff:    72,
			Resonance: 0.3,
			EnvMod:    0.4,
			KeyTrack:  0.5,
		},
		LFO1:   LFOParams{Wave: device.LFOSine, Rate: 5, Depth: 1},
		LFO2:   LFOParams{Wave: device.LFOTriangle, Rate: 0.5, Depth: 1},
		EnvVCF: EnvParams{Attack: 0.005, Decay: 0.3, Sustain: 0.2, Release: 0.3},
		EnvVCA: EnvParams{Attack: 0.005, Decay: 0.2, Sustain: 0.8, Release: 0.25},
		Env1:   EnvParams{Attack: 0.1, Decay: 0.5, Sustain: 0.5, Release: 0.5},
		Env2:   EnvParams{Attack: 0.1, Decay: 0.5, Sustain: 0.5, Release: 0.5},
		Gain:   0.5,
	}
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("voice: %s must be in [%g, %g]: %g", name, lo, hi, v)
	}
	return nil
}

func (e EnvParams) validate(name string) error {
	for _, c := range []struct {
		field string
		v     float64
		hi    float64
	}{
		{"attack", e.Attack, MaxEnvTime},
		{"decay", e.Decay, MaxEnvTime},
		{"sustain", e.Sustain, 1},
		{"release", e.Release, MaxEnvTime},
	} {
		if err := checkRange(name+"."+c.field, c.v, 0, c.hi); err != nil {
			return err
		}
	}
	return nil
}

func (o OscParams) validate(name string) error {
	if err := checkRange(name+".coarse", o.Coarse, -48, 48); err != nil {
		return err
	}
	if err := checkRange(name+".fine", o.Fine, -100, 100); err != nil {
		return err
	}
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"shape", o.Shape}, {"sine", o.Sine}, {"triangle", o.Triangle}, {"square", o.Square}, {"saw", o.Saw},
	} {
		if err := checkRange(name+"."+c.field, c.v, 0, 1); err != nil {
			return err
		}
	}
	return nil
}

// MaxEnvTime is the longest envelope stage in seconds, bounded by the
// fixed-point envelope format.
const MaxEnvTime = 7.99

// MaxLFORate is the highest LFO rate in Hz.
const MaxLFORate = 100

// Validate checks every field against its documented range.
func (p *Params) Validate() error {
	checks := []error{
		p.Osc1.validate("osc1"),
		p.Osc2.validate("osc2"),
		checkRange("ring.osc1", p.Ring.Osc1, 0, 1),
		checkRange("ring.osc2", p.Ring.Osc2, 0, 1),
		checkRange("ring.ring", p.Ring.Ring, 0, 1),
		checkRange("filter.cutoff", p.Filter.Cutoff, 0, device.NoteMax),
		checkRange("filter.resonance", p.Filter.Resonance, 0, 1),
		checkRange("filter.env_mod", p.Filter.EnvMod, -1, 1),
		checkRange("filter.key_track", p.Filter.KeyTrack, 0, 1),
		checkRange("lfo1.rate", p.LFO1.Rate, 0, MaxLFORate),
		checkRange("lfo1.depth", p.LFO1.Depth, 0, 1),
		checkRange("lfo2.rate", p.LFO2.Rate, 0, MaxLFORate),
		checkRange("lfo2.depth", p.LFO2.Depth, 0, 1),
		p.EnvVCF.validate("env_vcf"),
		p.EnvVCA.validate("env_vca"),
		p.Env1.validate("env1"),
		p.Env2.validate("env2"),
		checkRange("glide", p.Glide, 0, MaxEnvTime),
		checkRange("gain", p.Gain, 0, 2),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// Controls are the performance controls shared by every voice.
type Controls struct {
	// ModWheel and Aftertouch in [0, 1].
	ModWheel   float64
	Aftertouch float64
	// PitchBend in semitones.
	PitchBend float64
}

// glideSettle is the relative distance below which a glide snaps to its
// target note.
const glideSettle = 1e-6

// glideAlpha returns the per-sample one-pole coefficient for a glide time
// constant of t seconds; 1 jumps immediately.
func glideAlpha(t, sampleRate float64) float64 {
	if t <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/(t*sampleRate))
}
