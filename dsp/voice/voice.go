package voice

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/modmatrix"
)

// Voice is one floating-point instance of the synthesizer's device graph:
//
//	osc1 ─┬─────────────► ring mod ─► mod filter ─► amp
//	      └─ sync ─► osc2 ─┘
//
// with two LFOs and two free envelopes feeding the modulation matrix, a
// filter envelope inside the mod filter and an amplitude envelope on the amp.
//
// A voice is active from NoteOn until its amplitude envelope reaches
// StageIdle after NoteOff.
type Voice[T core.Float] struct {
	fs float64

	osc1, osc2 *device.MixOsc[T]
	ring       *device.RingMod[T]
	filt       *device.ModFilter[T]
	amp        *device.Amp[T]
	lfo1, lfo2 *device.LFO[T]
	envVCA     *device.Env[T]
	env1, env2 *device.Env[T]

	active   bool
	gate     bool
	velocity float64
	target   float64
	// glide position, float64 for every T
	current float64

	// Control-rate destinations resolved at the end of the previous chunk.
	prevDst [modmatrix.NumDest]T

	gateBuf  constant[bool]
	osc1Note constant[T]
	osc2Note constant[T]
	osc1Shp  constant[T]
	osc2Shp  constant[T]
	keyNote  constant[T]
	levA     constant[T]
	levB     constant[T]
	levR     constant[T]
	cutoff   constant[T]
	res      constant[T]
	gain     constant[T]
	envMod   constant[T]
	keyTrack constant[T]
	lfoRate  [2]constant[T]
	lfoDepth [2]constant[T]
	levels   [2]levelStreams[T]
	envs     [4]envStreams[T]

	out []T
}

// New returns an idle voice. Call Initialize before rendering.
func New[T core.Float](ctx core.Context, opts ...device.LFOOption) *Voice[T] {
	return &Voice[T]{
		fs:     ctx.SampleRate(),
		osc1:   device.NewMixOsc[T](ctx),
		osc2:   device.NewMixOsc[T](ctx),
		ring:   device.NewRingMod[T](),
		filt:   device.NewModFilter[T](ctx, device.LowPass),
		amp:    device.NewAmp[T](),
		lfo1:   device.NewLFO[T](ctx, opts...),
		lfo2:   device.NewLFO[T](ctx, opts...),
		envVCA: device.NewEnv[T](ctx),
		env1:   device.NewEnv[T](ctx),
		env2:   device.NewEnv[T](ctx),
	}
}

// Initialize sizes the output buffer for blocks of up to blockSize frames.
// It allocates and must not be called from the audio thread.
func (v *Voice[T]) Initialize(blockSize int) {
	v.out = core.EnsureLen(v.out, blockSize)
}

// NoteOn starts note. With legato set on an active voice the pitch glides to
// the new note without retriggering the envelopes.
func (v *Voice[T]) NoteOn(note, velocity float64, legato bool) {
	v.target = note
	v.velocity = core.Clamp(velocity, 0, 1)
	if legato && v.active {
		v.gate = true
		return
	}
	v.current = note
	v.gate, v.active = true, true
	v.envVCA.Trigger()
	v.env1.Trigger()
	v.env2.Trigger()
	v.filt.Env().Trigger()
}

// NoteOff releases the voice.
func (v *Voice[T]) NoteOff() { v.gate = false }

// Active reports whether the voice is sounding or yet to be rendered.
func (v *Voice[T]) Active() bool { return v.active }

// Idle reports whether the voice has finished its release and may be
// reassigned.
func (v *Voice[T]) Idle() bool { return !v.active }

// Gate reports whether the note is held.
func (v *Voice[T]) Gate() bool { return v.gate }

// Note returns the target note.
func (v *Voice[T]) Note() float64 { return v.target }

// Stage returns the amplitude envelope stage. A triggered voice that has not
// rendered yet reports StageAttack.
func (v *Voice[T]) Stage() device.Stage {
	if v.active && v.envVCA.Stage() == device.StageIdle {
		return device.StageAttack
	}
	return v.envVCA.Stage()
}

// Level returns the amplitude envelope level.
func (v *Voice[T]) Level() float64 { return v.envVCA.Level() }

// Reset silences the voice immediately.
func (v *Voice[T]) Reset() {
	v.active, v.gate = false, false
	v.prevDst = [modmatrix.NumDest]T{}
	v.osc1.Reset()
	v.osc2.Reset()
	v.filt.Reset()
	v.lfo1.Reset()
	v.lfo2.Reset()
	v.envVCA.Reset()
	v.env1.Reset()
	v.env2.Reset()
}

// Render produces up to the initialized block size of frames. The returned
// view is valid until the next Render. Inactive voices render silence.
func (v *Voice[T]) Render(frames int, p *Params, c Controls) []T {
	out := v.out[:min(max(frames, 0), len(v.out))]
	if !v.active {
		core.Zero(out)
		return out
	}
	alpha := glideAlpha(p.Glide, v.fs)
	for pos := 0; pos < len(out); {
		n := core.MinLen(len(out) - pos)
		v.renderChunk(out[pos:pos+n], p, c, alpha)
		pos += n
	}
	if core.NearlyEqual(v.current, v.target, glideSettle) {
		v.current = v.target
	}
	if !v.gate && v.envVCA.Stage() == device.StageIdle {
		v.active = false
	}
	return out
}

func (v *Voice[T]) renderChunk(dst []T, p *Params, c Controls, alpha float64) {
	n := len(dst)
	gate := v.gateBuf.fill(v.gate, n)

	// LFO rates are control-rate destinations.
	rate1 := max(0, modmatrix.Apply(modmatrix.DestLFO1Rate, T(p.LFO1.Rate), v.prevDst[modmatrix.DestLFO1Rate]))
	rate2 := max(0, modmatrix.Apply(modmatrix.DestLFO2Rate, T(p.LFO2.Rate), v.prevDst[modmatrix.DestLFO2Rate]))
	v.lfo1.SetWave(p.LFO1.Wave)
	v.lfo2.SetWave(p.LFO2.Wave)
	lfo1 := v.lfo1.Process(device.LFOParams[T]{
		Rate: v.lfoRate[0].fill(rate1, n), Depth: v.lfoDepth[0].fill(T(p.LFO1.Depth), n),
	})
	lfo2 := v.lfo2.Process(device.LFOParams[T]{
		Rate: v.lfoRate[1].fill(rate2, n), Depth: v.lfoDepth[1].fill(T(p.LFO2.Depth), n),
	})
	env1 := v.env1.Process(v.envs[0].fill(p.Env1, n), gate)
	env2 := v.env2.Process(v.envs[1].fill(p.Env2, n), gate)
	vca := v.envVCA.Process(v.envs[2].fill(p.EnvVCA, n), gate)

	var (
		src [modmatrix.NumSrc]T
		mod [modmatrix.NumDest]T
	)
	src[modmatrix.SrcVelocity] = T(v.velocity)
	src[modmatrix.SrcModWheel] = T(c.ModWheel)
	src[modmatrix.SrcAftertouch] = T(c.Aftertouch)

	var (
		off1    = T(p.Osc1.Coarse + p.Osc1.Fine/100)
		off2    = T(p.Osc2.Coarse + p.Osc2.Fine/100)
		bend    = T(c.PitchBend)
		noteMax = T(device.NoteMax)
	)
	for i := 0; i < n; i++ {
		src[modmatrix.SrcEnv1] = env1[i]
		src[modmatrix.SrcEnv2] = env2[i]
		src[modmatrix.SrcLFO1] = lfo1[i]
		src[modmatrix.SrcLFO2] = lfo2[i]
		modmatrix.Resolve(&p.Matrix, &src, &mod)

		v.current += (v.target - v.current) * alpha
		cur := T(v.current)
		note := cur + bend

		v.keyNote[i] = cur
		v.osc1Note[i] = core.Clamp(apply(&mod, modmatrix.DestOsc1Pitch, note+off1), 0, noteMax)
		v.osc2Note[i] = core.Clamp(apply(&mod, modmatrix.DestOsc2Pitch, note+off2), 0, noteMax)
		v.osc1Shp[i] = core.Clamp(apply(&mod, modmatrix.DestOsc1Shape, T(p.Osc1.Shape)), 0, 1)
		v.osc2Shp[i] = core.Clamp(apply(&mod, modmatrix.DestOsc2Shape, T(p.Osc2.Shape)), 0, 1)
		v.levA[i] = core.Clamp(apply(&mod, modmatrix.DestOsc1Level, T(p.Ring.Osc1)), 0, 1)
		v.levB[i] = core.Clamp(apply(&mod, modmatrix.DestOsc2Level, T(p.Ring.Osc2)), 0, 1)
		v.levR[i] = core.Clamp(apply(&mod, modmatrix.DestRingLevel, T(p.Ring.Ring)), 0, 1)
		v.cutoff[i] = apply(&mod, modmatrix.DestFilterCutoff, T(p.Filter.Cutoff))
		v.res[i] = core.Clamp(apply(&mod, modmatrix.DestFilterResonance, T(p.Filter.Resonance)), 0, 1)
		v.gain[i] = apply(&mod, modmatrix.DestAmpGain, T(p.Gain)*vca[i])
	}
	v.prevDst = mod

	s1, t1, q1, w1 := v.levels[0].fill(p.Osc1, n)
	osc1, sync := v.osc1.Process(device.MixOscParams[T]{
		Osc:  device.OscParams[T]{Note: v.osc1Note[:n], Shape: v.osc1Shp[:n]},
		Sine: s1, Triangle: t1, Square: q1, Saw: w1,
	})
	var syncIn []bool
	if p.Sync {
		syncIn = sync
	}
	s2, t2, q2, w2 := v.levels[1].fill(p.Osc2, n)
	osc2, _ := v.osc2.Process(device.MixOscParams[T]{
		Osc:  device.OscParams[T]{Note: v.osc2Note[:n], Shape: v.osc2Shp[:n], Sync: syncIn},
		Sine: s2, Triangle: t2, Square: q2, Saw: w2,
	})
	mixed := v.ring.Process(osc1, osc2, device.RingModParams[T]{
		LevelA: v.levA[:n], LevelB: v.levB[:n], LevelRing: v.levR[:n],
	})

	v.filt.SetMode(p.Filter.Mode)
	filtered := v.filt.Process(mixed, device.ModFilterParams[T]{
		Env:       v.envs[3].fill(p.EnvVCF, n),
		Gate:      gate,
		Note:      v.keyNote[:n],
		Cutoff:    v.cutoff[:n],
		EnvMod:    v.envMod.fill(T(p.Filter.EnvMod), n),
		KeyTrack:  v.keyTrack.fill(T(p.Filter.KeyTrack), n),
		Resonance: v.res[:n],
	})
	copy(dst, v.amp.Process(filtered, v.gain[:n]))
}

func apply[T core.Float](mod *[modmatrix.NumDest]T, d modmatrix.Dest, base T) T {
	return modmatrix.Apply(d, base, mod[d])
}
