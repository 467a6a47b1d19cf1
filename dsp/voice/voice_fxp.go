package voice

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-synth/dsp/modmatrix"
)

// glideFrac is the extra precision of the gliding note accumulator.
const glideFrac = 16

// VoiceFxP is the fixed-point voice. Its device graph and modulation routing
// match Voice; parameters arrive pre-quantized as ParamsFxP.
type VoiceFxP struct {
	osc1, osc2 *device.MixOscFxP
	ring       *device.RingModFxP
	filt       *device.ModFilterFxP
	amp        *device.AmpFxP
	lfo1, lfo2 *device.LFOFxP
	envVCA     *device.EnvFxP
	env1, env2 *device.EnvFxP

	active   bool
	gate     bool
	velocity fixed.Sample
	target   fixed.Note
	// current note in F(9+glideFrac)
	current int64

	prevDst [modmatrix.NumDest]fixed.Sample

	gateBuf  constant[bool]
	osc1Note constant[fixed.Note]
	osc2Note constant[fixed.Note]
	osc1Shp  constant[fixed.Scalar]
	osc2Shp  constant[fixed.Scalar]
	keyNote  constant[fixed.Note]
	levA     constant[fixed.Scalar]
	levB     constant[fixed.Scalar]
	levR     constant[fixed.Scalar]
	cutoff   constant[fixed.Note]
	res      constant[fixed.Scalar]
	gain     constant[fixed.USample]
	envMod   constant[fixed.Weight]
	keyTrack constant[fixed.Scalar]
	lfoRate  [2]constant[fixed.Freq]
	lfoDepth [2]constant[fixed.Scalar]
	levels   [2]levelStreamsFxP
	envs     [4]envStreamsFxP

	out []fixed.Sample
}

// NewFxP returns an idle fixed-point voice. Call Initialize before rendering.
func NewFxP(ctx core.ContextFxP, opts ...device.LFOOption) *VoiceFxP {
	return &VoiceFxP{
		osc1:   device.NewMixOscFxP(ctx),
		osc2:   device.NewMixOscFxP(ctx),
		ring:   device.NewRingModFxP(),
		filt:   device.NewModFilterFxP(ctx, device.LowPass),
		amp:    device.NewAmpFxP(),
		lfo1:   device.NewLFOFxP(ctx, opts...),
		lfo2:   device.NewLFOFxP(ctx, opts...),
		envVCA: device.NewEnvFxP(ctx),
		env1:   device.NewEnvFxP(ctx),
		env2:   device.NewEnvFxP(ctx),
	}
}

// Initialize sizes the output buffer. It allocates.
func (v *VoiceFxP) Initialize(blockSize int) {
	v.out = core.EnsureLen(v.out, blockSize)
}

// NoteOn starts note; see Voice.NoteOn.
func (v *VoiceFxP) NoteOn(note, velocity float64, legato bool) {
	v.target = fixed.NoteFromFloat(note)
	v.velocity = fixed.SampleFromFloat(core.Clamp(velocity, 0, 1))
	if legato && v.active {
		v.gate = true
		return
	}
	v.current = int64(v.target) << glideFrac
	v.gate, v.active = true, true
	v.envVCA.Trigger()
	v.env1.Trigger()
	v.env2.Trigger()
	v.filt.Env().Trigger()
}

// NoteOff releases the voice.
func (v *VoiceFxP) NoteOff() { v.gate = false }

// Active reports whether the voice is sounding or yet to be rendered.
func (v *VoiceFxP) Active() bool { return v.active }

// Idle reports whether the voice has finished its release and may be
// reassigned.
func (v *VoiceFxP) Idle() bool { return !v.active }

// Gate reports whether the note is held.
func (v *VoiceFxP) Gate() bool { return v.gate }

// Note returns the target note.
func (v *VoiceFxP) Note() float64 { return v.target.Float() }

// Stage returns the amplitude envelope stage.
func (v *VoiceFxP) Stage() device.Stage {
	if v.active && v.envVCA.Stage() == device.StageIdle {
		return device.StageAttack
	}
	return v.envVCA.Stage()
}

// Level returns the amplitude envelope level.
func (v *VoiceFxP) Level() float64 { return v.envVCA.Level().Float() }

// Reset silences the voice immediately.
func (v *VoiceFxP) Reset() {
	v.active, v.gate = false, false
	v.prevDst = [modmatrix.NumDest]fixed.Sample{}
	v.osc1.Reset()
	v.osc2.Reset()
	v.filt.Reset()
	v.lfo1.Reset()
	v.lfo2.Reset()
	v.envVCA.Reset()
	v.env1.Reset()
	v.env2.Reset()
}

// Render produces up to the initialized block size of frames.
func (v *VoiceFxP) Render(frames int, p *ParamsFxP, c Controls) []fixed.Sample {
	out := v.out[:min(max(frames, 0), len(v.out))]
	if !v.active {
		core.Zero(out)
		return out
	}
	cq := c.fxp()
	for pos := 0; pos < len(out); {
		n := core.MinLen(len(out) - pos)
		v.renderChunk(out[pos:pos+n], p, cq)
		pos += n
	}
	if !v.gate && v.envVCA.Stage() == device.StageIdle {
		v.active = false
	}
	return out
}

func lfoRateFxP(base fixed.Freq, d modmatrix.Dest, mod fixed.Sample) fixed.Freq {
	r := int64(base) + modmatrix.Offset(d, mod, fixed.FreqFrac)
	return fixed.Freq(min(max(r, 0), math.MaxUint32))
}

func (v *VoiceFxP) renderChunk(dst []fixed.Sample, p *ParamsFxP, c controlsFxP) {
	n := len(dst)
	gate := v.gateBuf.fill(v.gate, n)

	rate1 := lfoRateFxP(p.lfo[0].rate, modmatrix.DestLFO1Rate, v.prevDst[modmatrix.DestLFO1Rate])
	rate2 := lfoRateFxP(p.lfo[1].rate, modmatrix.DestLFO2Rate, v.prevDst[modmatrix.DestLFO2Rate])
	v.lfo1.SetWave(p.lfo[0].wave)
	v.lfo2.SetWave(p.lfo[1].wave)
	lfo1 := v.lfo1.Process(device.LFOParamsFxP{
		Rate: v.lfoRate[0].fill(rate1, n), Depth: v.lfoDepth[0].fill(p.lfo[0].depth, n),
	})
	lfo2 := v.lfo2.Process(device.LFOParamsFxP{
		Rate: v.lfoRate[1].fill(rate2, n), Depth: v.lfoDepth[1].fill(p.lfo[1].depth, n),
	})
	env1 := v.env1.Process(v.envs[0].fill(p.env[2], n), gate)
	env2 := v.env2.Process(v.envs[1].fill(p.env[3], n), gate)
	vca := v.envVCA.Process(v.envs[2].fill(p.env[1], n), gate)

	var (
		src [modmatrix.NumSrc]fixed.Sample
		mod [modmatrix.NumDest]fixed.Sample
	)
	src[modmatrix.SrcVelocity] = v.velocity
	src[modmatrix.SrcModWheel] = c.modWheel
	src[modmatrix.SrcAftertouch] = c.aftertouch

	target := int64(v.target) << glideFrac
	for i := 0; i < n; i++ {
		src[modmatrix.SrcEnv1] = env1[i].Sample()
		src[modmatrix.SrcEnv2] = env2[i].Sample()
		src[modmatrix.SrcLFO1] = lfo1[i]
		src[modmatrix.SrcLFO2] = lfo2[i]
		modmatrix.ResolveFxP(&p.matrix, &src, &mod)

		v.current += ((target - v.current) * int64(p.glide)) >> 16
		cur := v.current >> glideFrac
		note := cur + c.bend

		v.keyNote[i] = fixed.SaturateNote(cur, fixed.NoteFrac)
		v.osc1Note[i] = fixed.SaturateNote(note+p.osc[0].offset+offset(&mod, modmatrix.DestOsc1Pitch, fixed.NoteFrac), fixed.NoteFrac)
		v.osc2Note[i] = fixed.SaturateNote(note+p.osc[1].offset+offset(&mod, modmatrix.DestOsc2Pitch, fixed.NoteFrac), fixed.NoteFrac)
		v.osc1Shp[i] = fixed.SaturateScalar(int64(p.osc[0].shape)+offset(&mod, modmatrix.DestOsc1Shape, fixed.ScalarFrac), fixed.ScalarFrac)
		v.osc2Shp[i] = fixed.SaturateScalar(int64(p.osc[1].shape)+offset(&mod, modmatrix.DestOsc2Shape, fixed.ScalarFrac), fixed.ScalarFrac)
		v.levA[i] = fixed.SaturateScalar(int64(p.ring[0])+offset(&mod, modmatrix.DestOsc1Level, fixed.ScalarFrac), fixed.ScalarFrac)
		v.levB[i] = fixed.SaturateScalar(int64(p.ring[1])+offset(&mod, modmatrix.DestOsc2Level, fixed.ScalarFrac), fixed.ScalarFrac)
		v.levR[i] = fixed.SaturateScalar(int64(p.ring[2])+offset(&mod, modmatrix.DestRingLevel, fixed.ScalarFrac), fixed.ScalarFrac)
		v.cutoff[i] = fixed.SaturateNote(int64(p.cutoff)+offset(&mod, modmatrix.DestFilterCutoff, fixed.NoteFrac), fixed.NoteFrac)
		v.res[i] = fixed.SaturateScalar(int64(p.res)+offset(&mod, modmatrix.DestFilterResonance, fixed.ScalarFrac), fixed.ScalarFrac)

		// gain·vca is F28; (1 + c) is F12.
		factor := max(int64(fixed.SampleOne)+offset(&mod, modmatrix.DestAmpGain, fixed.SampleFrac), 0)
		v.gain[i] = fixed.SaturateUSample(int64(p.gain)*int64(vca[i])*factor, fixed.USampleFrac+fixed.ScalarFrac+fixed.SampleFrac)
	}
	v.prevDst = mod

	s1, t1, q1, w1 := v.levels[0].fill(p.osc[0], n)
	osc1, sync := v.osc1.Process(device.MixOscParamsFxP{
		Osc:  device.OscParamsFxP{Note: v.osc1Note[:n], Shape: v.osc1Shp[:n]},
		Sine: s1, Triangle: t1, Square: q1, Saw: w1,
	})
	var syncIn []bool
	if p.sync {
		syncIn = sync
	}
	s2, t2, q2, w2 := v.levels[1].fill(p.osc[1], n)
	osc2, _ := v.osc2.Process(device.MixOscParamsFxP{
		Osc:  device.OscParamsFxP{Note: v.osc2Note[:n], Shape: v.osc2Shp[:n], Sync: syncIn},
		Sine: s2, Triangle: t2, Square: q2, Saw: w2,
	})
	mixed := v.ring.Process(osc1, osc2, device.RingModParamsFxP{
		LevelA: v.levA[:n], LevelB: v.levB[:n], LevelRing: v.levR[:n],
	})

	v.filt.SetMode(p.mode)
	filtered := v.filt.Process(mixed, device.ModFilterParamsFxP{
		Env:       v.envs[3].fill(p.env[0], n),
		Gate:      gate,
		Note:      v.keyNote[:n],
		Cutoff:    v.cutoff[:n],
		EnvMod:    v.envMod.fill(p.envMod, n),
		KeyTrack:  v.keyTrack.fill(p.keyTrack, n),
		Resonance: v.res[:n],
	})
	copy(dst, v.amp.Process(filtered, v.gain[:n]))
}

func offset(mod *[modmatrix.NumDest]fixed.Sample, d modmatrix.Dest, frac uint) int64 {
	return modmatrix.Offset(d, mod[d], frac)
}
