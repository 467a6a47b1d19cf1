package voice

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-synth/dsp/modmatrix"
)

type oscFxP struct {
	offset int64 // semitones in F9
	shape  fixed.Scalar
	levels [4]fixed.Scalar // sine, triangle, square, saw
}

type envFxP struct {
	attack, decay, release fixed.EnvParam
	sustain                fixed.Scalar
}

type lfoFxP struct {
	wave  device.LFOWave
	rate  fixed.Freq
	depth fixed.Scalar
}

// ParamsFxP is Params quantized for the fixed-point voice. Converting once
// per parameter change keeps float math out of the per-sample path.
type ParamsFxP struct {
	osc  [2]oscFxP
	sync bool
	ring [3]fixed.Scalar

	mode     device.FilterMode
	cutoff   fixed.Note
	res      fixed.Scalar
	envMod   fixed.Weight
	keyTrack fixed.Scalar

	lfo [2]lfoFxP
	// vcf, vca, env1, env2
	env [4]envFxP

	glide uint32 // per-sample one-pole coefficient, U16F16
	gain  fixed.USample

	matrix modmatrix.Matrix
}

// NewParamsFxP quantizes p for a fixed-point voice at sampleRate.
func NewParamsFxP(p *Params, sampleRate uint32) *ParamsFxP {
	q := &ParamsFxP{}
	q.Set(p, sampleRate)
	return q
}

// Set overwrites q with the quantized form of p. It does not allocate.
func (q *ParamsFxP) Set(p *Params, sampleRate uint32) {
	for i, o := range [2]OscParams{p.Osc1, p.Osc2} {
		q.osc[i] = oscFxP{
			offset: int64(math.Round((o.Coarse + o.Fine/100) * (1 << fixed.NoteFrac))),
			shape:  fixed.ScalarFromFloat(o.Shape),
			levels: [4]fixed.Scalar{
				fixed.ScalarFromFloat(o.Sine),
				fixed.ScalarFromFloat(o.Triangle),
				fixed.ScalarFromFloat(o.Square),
				fixed.ScalarFromFloat(o.Saw),
			},
		}
	}
	q.sync = p.Sync
	q.ring = [3]fixed.Scalar{
		fixed.ScalarFromFloat(p.Ring.Osc1),
		fixed.ScalarFromFloat(p.Ring.Osc2),
		fixed.ScalarFromFloat(p.Ring.Ring),
	}
	q.mode = p.Filter.Mode
	q.cutoff = fixed.NoteFromFloat(p.Filter.Cutoff)
	q.res = fixed.ScalarFromFloat(p.Filter.Resonance)
	q.envMod = fixed.WeightFromFloat(p.Filter.EnvMod)
	q.keyTrack = fixed.ScalarFromFloat(p.Filter.KeyTrack)
	for i, l := range [2]LFOParams{p.LFO1, p.LFO2} {
		q.lfo[i] = lfoFxP{wave: l.Wave, rate: fixed.FreqFromFloat(l.Rate), depth: fixed.ScalarFromFloat(l.Depth)}
	}
	for i, e := range [4]EnvParams{p.EnvVCF, p.EnvVCA, p.Env1, p.Env2} {
		q.env[i] = envFxP{
			attack:  fixed.EnvParamFromFloat(e.Attack),
			decay:   fixed.EnvParamFromFloat(e.Decay),
			sustain: fixed.ScalarFromFloat(e.Sustain),
			release: fixed.EnvParamFromFloat(e.Release),
		}
	}
	a := math.Round(glideAlpha(p.Glide, float64(sampleRate)) * (1 << 16))
	q.glide = uint32(min(max(a, 1), 1<<16))
	q.gain = fixed.USampleFromFloat(p.Gain)
	q.matrix = p.Matrix
}

type controlsFxP struct {
	modWheel   fixed.Sample
	aftertouch fixed.Sample
	bend       int64 // semitones in F9
}

func (c Controls) fxp() controlsFxP {
	return controlsFxP{
		modWheel:   fixed.SampleFromFloat(c.ModWheel),
		aftertouch: fixed.SampleFromFloat(c.Aftertouch),
		bend:       int64(math.Round(c.PitchBend * (1 << fixed.NoteFrac))),
	}
}
