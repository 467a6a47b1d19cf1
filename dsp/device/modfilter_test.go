package device

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestModFilterWithoutModulationMatchesFilter(t *testing.T) {
	ctx := testContext(t, 44100)
	const n = BufferSize
	in := testutil.DeterministicNoise[float64](9, 0.5, n)
	zero := make([]float64, n)

	for _, mode := range []FilterMode{LowPass, BandPass, HighPass} {
		t.Run(mode.String(), func(t *testing.T) {
			mf := NewModFilter[float64](ctx, mode)
			got := mf.Process(in, ModFilterParams[float64]{
				Env:    envParams(n, 0.01, 0.1, 0.5, 0.2),
				Gate:   testutil.DC(true, n),
				Note:   testutil.DC(72.0, n),
				Cutoff: testutil.DC(66.0, n),
				EnvMod: zero, KeyTrack: zero,
				Resonance: testutil.DC(0.3, n),
			})
			out := NewFilter[float64](ctx).Process(in, FilterParams[float64]{
				Cutoff: testutil.DC(66.0, n), Resonance: testutil.DC(0.3, n),
			})
			testutil.RequireSliceNearlyEqual(t, got, selectOutput(mode, out), 0)
		})
	}
}

func TestModFilterCutoffTracksEnvelopeAndKeys(t *testing.T) {
	ctx := testContext(t, 1000)
	mf := NewModFilter[float64](ctx, LowPass)
	const n = 40
	mf.Process(make([]float64, n), ModFilterParams[float64]{
		Env:       envParams(n, 0.01, 1, 1, 1),
		Gate:      testutil.DC(true, n),
		Note:      testutil.DC(72.0, n),
		Cutoff:    testutil.DC(30.0, n),
		EnvMod:    testutil.DC(0.5, n),
		KeyTrack:  testutil.DC(1.0, n),
		Resonance: make([]float64, n),
	})
	// Envelope at 1: 30 + 0.5·96 + (72-60), clamped to NoteMax.
	want := min(30+0.5*EnvRange+12.0, NoteMax)
	if got := mf.cutoff[n-1]; got != want {
		t.Fatalf("effective cutoff = %v, want %v", got, want)
	}
	if mf.Env().Stage() != StageSustain {
		t.Fatalf("env stage = %v", mf.Env().Stage())
	}
}

func TestModFilterFloat32CutoffClamp(t *testing.T) {
	ctx := testContext(t, 1000)
	const n = 40
	tests := []struct {
		name   string
		cutoff float32
		envMod float32
		want   float32
	}{
		{"ceiling", 100, 1, float32(NoteMax)},
		{"floor", 10, -1, 0},
		{"inside", 30, 0.25, 54},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mf := NewModFilter[float32](ctx, LowPass)
			fast := testutil.DC(float32(0.01), n)
			mf.Process(make([]float32, n), ModFilterParams[float32]{
				Env:       EnvParams[float32]{Attack: fast, Decay: fast, Sustain: testutil.DC(float32(1), n), Release: fast},
				Gate:      testutil.DC(true, n),
				Note:      testutil.DC(float32(KeyTrackCenter), n),
				Cutoff:    testutil.DC(tc.cutoff, n),
				EnvMod:    testutil.DC(tc.envMod, n),
				KeyTrack:  make([]float32, n),
				Resonance: make([]float32, n),
			})
			if got := mf.cutoff[n-1]; got != tc.want {
				t.Fatalf("effective cutoff = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestModFilterFxPCutoffSaturates(t *testing.T) {
	mf := NewModFilterFxP(testContextFxP(t, 44100), HighPass)
	const n = 64
	full := testutil.DC(fixed.ScalarMax, n)
	fast := testutil.DC(fixed.EnvParam(0), n)
	mf.Process(make([]fixed.Sample, n), ModFilterParamsFxP{
		Env:       EnvParamsFxP{Attack: fast, Decay: fast, Sustain: full, Release: fast},
		Gate:      testutil.DC(true, n),
		Note:      testutil.DC(fixed.NoteFromFloat(127), n),
		Cutoff:    testutil.DC(fixed.NoteFromFloat(100), n),
		EnvMod:    testutil.DC(fixed.WeightMax, n),
		KeyTrack:  full,
		Resonance: make([]fixed.Scalar, n),
	})
	if got := mf.cutoff[n-1]; got != fixed.NoteMax {
		t.Fatalf("cutoff = %d, want saturation at %d", got, fixed.NoteMax)
	}

	mf.Process(make([]fixed.Sample, n), ModFilterParamsFxP{
		Env:       EnvParamsFxP{Attack: fast, Decay: fast, Sustain: full, Release: fast},
		Gate:      testutil.DC(true, n),
		Note:      testutil.DC(fixed.NoteFromFloat(0), n),
		Cutoff:    testutil.DC(fixed.NoteFromFloat(10), n),
		EnvMod:    testutil.DC(fixed.WeightMin, n),
		KeyTrack:  full,
		Resonance: make([]fixed.Scalar, n),
	})
	if got := mf.cutoff[n-1]; got != 0 {
		t.Fatalf("cutoff = %d, want saturation at 0", got)
	}
}

func TestModFilterFxPMatchesFloat(t *testing.T) {
	const sr = 48000
	const n = BufferSize
	mf := NewModFilter[float64](testContext(t, sr), LowPass)
	mx := NewModFilterFxP(testContextFxP(t, sr), LowPass)
	in := testutil.DeterministicSine[float64](110, sr, 0.5, n)

	want := mf.Process(in, ModFilterParams[float64]{
		Env:       envParams(n, 0.002, 0.002, 0.5, 0.002),
		Gate:      testutil.DC(true, n),
		Note:      testutil.DC(64.0, n),
		Cutoff:    testutil.DC(40.0, n),
		EnvMod:    testutil.DC(0.25, n),
		KeyTrack:  testutil.DC(0.5, n),
		Resonance: testutil.DC(0.2, n),
	})
	got := mx.Process(testutil.ToFixed(in), ModFilterParamsFxP{
		Env: EnvParamsFxP{
			Attack:  testutil.DC(fixed.EnvParamFromFloat(0.002), n),
			Decay:   testutil.DC(fixed.EnvParamFromFloat(0.002), n),
			Sustain: testutil.DC(fixed.ScalarFromFloat(0.5), n),
			Release: testutil.DC(fixed.EnvParamFromFloat(0.002), n),
		},
		Gate:      testutil.DC(true, n),
		Note:      testutil.DC(fixed.NoteFromFloat(64), n),
		Cutoff:    testutil.DC(fixed.NoteFromFloat(40), n),
		EnvMod:    testutil.DC(fixed.WeightFromFloat(0.25), n),
		KeyTrack:  testutil.DC(fixed.ScalarFromFloat(0.5), n),
		Resonance: testutil.DC(fixed.ScalarFromFloat(0.2), n),
	})
	testutil.RequireSliceNearlyEqual(t, testutil.FromFixed(got), want, 0.05)
}

func TestParseFilterMode(t *testing.T) {
	for _, m := range []FilterMode{LowPass, BandPass, HighPass} {
		got, err := ParseFilterMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseFilterMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseFilterMode("notch"); err == nil {
		t.Fatal("unknown mode accepted")
	}
}
