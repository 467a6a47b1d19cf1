package voice

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/modmatrix"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

const testRate = 48000

func newTestVoice(t *testing.T) *Voice[float64] {
	t.Helper()
	ctx, err := core.NewContext(testRate)
	if err != nil {
		t.Fatal(err)
	}
	v := New[float64](ctx)
	v.Initialize(512)
	return v
}

func newTestVoiceFxP(t *testing.T) *VoiceFxP {
	t.Helper()
	ctx, ok := core.MaybeNewContextFxP(testRate)
	if !ok {
		t.Fatal("48 kHz unsupported")
	}
	v := NewFxP(ctx)
	v.Initialize(512)
	return v
}

func rms(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}

func TestVoiceSilentUntilNoteOn(t *testing.T) {
	v := newTestVoice(t)
	p := DefaultParams()
	out := v.Render(512, p, Controls{})
	if len(out) != 512 {
		t.Fatalf("len = %d, want 512", len(out))
	}
	if testutil.Peak(out) != 0 {
		t.Fatal("idle voice rendered sound")
	}
	if v.Active() {
		t.Fatal("voice active before NoteOn")
	}
}

func TestVoiceRenderLengthCapped(t *testing.T) {
	v := newTestVoice(t)
	p := DefaultParams()
	v.NoteOn(60, 1, false)
	if got := len(v.Render(2000, p, Controls{})); got != 512 {
		t.Fatalf("len = %d, want 512", got)
	}
	if got := len(v.Render(-3, p, Controls{})); got != 0 {
		t.Fatalf("len = %d, want 0", got)
	}
}

func TestVoiceLifecycle(t *testing.T) {
	v := newTestVoice(t)
	p := DefaultParams()
	p.EnvVCA = EnvParams{Attack: 0.001, Decay: 0.01, Sustain: 0.7, Release: 0.02}

	v.NoteOn(60, 1, false)
	if !v.Active() || v.Stage() != device.StageAttack {
		t.Fatalf("after NoteOn: active=%v stage=%v", v.Active(), v.Stage())
	}
	var sound []float64
	for range 10 {
		sound = append(sound, v.Render(512, p, Controls{})...)
	}
	testutil.RequireFinite(t, sound)
	testutil.RequireBounded(t, sound, 4)
	if r := rms(sound[len(sound)/2:]); r < 0.01 {
		t.Fatalf("held note too quiet: rms %g", r)
	}
	if v.Stage() != device.StageSustain {
		t.Fatalf("stage = %v, want sustain", v.Stage())
	}

	v.NoteOff()
	for range 10 {
		v.Render(512, p, Controls{})
	}
	if v.Active() {
		t.Fatalf("voice still active after release, stage %v", v.Stage())
	}
	if out := v.Render(512, p, Controls{}); testutil.Peak(out) != 0 {
		t.Fatal("released voice still sounding")
	}
}

func TestVoiceLegatoGlides(t *testing.T) {
	v := newTestVoice(t)
	p := DefaultParams()
	p.Glide = 0.05
	v.NoteOn(48, 1, false)
	v.Render(512, p, Controls{})
	stage := v.envVCA.Stage()

	v.NoteOn(60, 1, true)
	if v.envVCA.Stage() != stage {
		t.Fatal("legato retriggered the envelope")
	}
	v.Render(64, p, Controls{})
	if v.current <= 48 || v.current >= 59 {
		t.Fatalf("current note after 64 samples = %g, want mid-glide", v.current)
	}
	for range 60 {
		v.Render(512, p, Controls{})
	}
	if math.Abs(v.current-60) > 0.01 {
		t.Fatalf("glide settled at %g, want 60", v.current)
	}
}

func TestGlideSnapsToTarget(t *testing.T) {
	ctx, err := core.NewContext(testRate)
	if err != nil {
		t.Fatal(err)
	}
	v := New[float32](ctx)
	v.Initialize(512)
	p := DefaultParams()
	p.Glide = 0.05
	v.NoteOn(48, 1, false)
	v.Render(512, p, Controls{})
	v.NoteOn(60, 1, true)
	for range 120 {
		v.Render(512, p, Controls{})
	}
	if v.current != 60 {
		t.Fatalf("glide ended at %v, want exactly 60", v.current)
	}
}

func TestInitializeReusesBuffer(t *testing.T) {
	v := newTestVoice(t)
	before := &v.out[:1][0]
	v.Initialize(256)
	if len(v.out) != 256 || &v.out[0] != before {
		t.Fatal("shrinking Initialize reallocated the output buffer")
	}
}

func TestVoiceNonLegatoJumps(t *testing.T) {
	v := newTestVoice(t)
	p := DefaultParams()
	p.Glide = 1
	v.NoteOn(48, 1, false)
	v.Render(256, p, Controls{})
	v.NoteOn(72, 1, false)
	v.Render(1, p, Controls{})
	if v.current != 72 {
		t.Fatalf("current = %g, want 72", v.current)
	}
}

func TestVoiceModMatrixGain(t *testing.T) {
	// Velocity routed to amp gain with weight -1 silences a full-velocity note.
	p := DefaultParams()
	if err := p.Matrix.SetSlot(modmatrix.SrcVelocity, 0, modmatrix.DestAmpGain, -1); err != nil {
		t.Fatal(err)
	}
	v := newTestVoice(t)
	v.NoteOn(60, 1, false)
	out := v.Render(512, p, Controls{})
	if peak := testutil.Peak(out); peak > 1e-12 {
		t.Fatalf("peak = %g, want silence", peak)
	}
}

func TestVoiceFxPLifecycle(t *testing.T) {
	v := newTestVoiceFxP(t)
	p := DefaultParams()
	p.EnvVCA = EnvParams{Attack: 0.001, Decay: 0.01, Sustain: 0.7, Release: 0.02}
	q := NewParamsFxP(p, testRate)

	v.NoteOn(60, 1, false)
	var sound []float64
	for range 10 {
		sound = append(sound, testutil.FromFixed(v.Render(512, q, Controls{}))...)
	}
	if r := rms(sound[len(sound)/2:]); r < 0.01 {
		t.Fatalf("held note too quiet: rms %g", r)
	}
	v.NoteOff()
	for range 10 {
		v.Render(512, q, Controls{})
	}
	if v.Active() {
		t.Fatal("fixed voice still active after release")
	}
}

func TestVoiceFxPTracksFloat(t *testing.T) {
	p := DefaultParams()
	p.Filter.Resonance = 0
	p.Osc2 = OscParams{}
	p.Osc1 = OscParams{Sine: 1}
	p.Ring = RingModParams{Osc1: 1}
	p.Filter.Cutoff = 120
	q := NewParamsFxP(p, testRate)

	vf := newTestVoice(t)
	vx := newTestVoiceFxP(t)
	vf.NoteOn(57, 1, false)
	vx.NoteOn(57, 1, false)
	var fl, fx []float64
	for range 8 {
		fl = append(fl, vf.Render(512, p, Controls{})...)
		fx = append(fx, testutil.FromFixed(vx.Render(512, q, Controls{}))...)
	}
	rf, rx := rms(fl[2048:]), rms(fx[2048:])
	if math.Abs(rf-rx) > 0.1*rf {
		t.Fatalf("rms float %g vs fixed %g", rf, rx)
	}
}

func TestParamsFxPSetDoesNotAllocate(t *testing.T) {
	p := DefaultParams()
	q := NewParamsFxP(p, testRate)
	if n := testing.AllocsPerRun(100, func() { q.Set(p, testRate) }); n != 0 {
		t.Fatalf("Set allocated %v times", n)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		ok     bool
	}{
		{"default", func(*Params) {}, true},
		{"negative attack", func(p *Params) { p.EnvVCA.Attack = -1 }, false},
		{"long release", func(p *Params) { p.Env1.Release = 9 }, false},
		{"sustain above one", func(p *Params) { p.EnvVCF.Sustain = 1.5 }, false},
		{"NaN cutoff", func(p *Params) { p.Filter.Cutoff = math.NaN() }, false},
		{"coarse range", func(p *Params) { p.Osc2.Coarse = 60 }, false},
		{"lfo rate", func(p *Params) { p.LFO1.Rate = 1000 }, false},
		{"env mod negative", func(p *Params) { p.Filter.EnvMod = -1 }, true},
		{"gain", func(p *Params) { p.Gain = 3 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(p)
			if err := p.Validate(); (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}

func TestGlideAlpha(t *testing.T) {
	if got := glideAlpha(0, testRate); got != 1 {
		t.Fatalf("glideAlpha(0) = %g, want 1", got)
	}
	a := glideAlpha(0.1, testRate)
	// After one time constant the remaining distance is 1/e.
	rem := math.Pow(1-a, 0.1*testRate)
	if math.Abs(rem-1/math.E) > 1e-3 {
		t.Fatalf("remaining after tau = %g, want %g", rem, 1/math.E)
	}
}
