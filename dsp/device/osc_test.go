package device

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func countTrue(b []bool) int {
	c := 0
	for _, v := range b {
		if v {
			c++
		}
	}
	return c
}

func TestOscSyncFlagsCountCycles(t *testing.T) {
	const sr = 44100
	ctx := testContext(t, sr)
	o := NewOsc[float64](ctx)
	note := testutil.DC(69.0, BufferSize)
	shape := make([]float64, BufferSize)

	wraps := 0
	for rendered := 0; rendered < sr; {
		out := o.Process(OscParams[float64]{Note: note[:min(BufferSize, sr-rendered)], Shape: shape})
		wraps += countTrue(out.Sync)
		testutil.RequireBounded(t, out.Saw, 1.1)
		testutil.RequireBounded(t, out.Square, 1.1)
		testutil.RequireBounded(t, out.Triangle, 1)
		testutil.RequireBounded(t, out.Sine, 1)
		rendered += len(out.Sync)
	}
	if wraps < 439 || wraps > 441 {
		t.Fatalf("wraps in one second = %d, want 440", wraps)
	}
}

func TestOscFxPSyncFlagsCountCycles(t *testing.T) {
	const sr = 48000
	o := NewOscFxP(testContextFxP(t, sr))
	note := testutil.DC(fixed.NoteFromFloat(69), BufferSize)
	shape := make([]fixed.Scalar, BufferSize)

	wraps := 0
	for rendered := 0; rendered < sr; {
		out := o.Process(OscParamsFxP{Note: note[:min(BufferSize, sr-rendered)], Shape: shape})
		wraps += countTrue(out.Sync)
		rendered += len(out.Sync)
	}
	if wraps < 439 || wraps > 441 {
		t.Fatalf("wraps in one second = %d, want 440", wraps)
	}
}

func TestOscHardSyncResetsPhase(t *testing.T) {
	o := NewOsc[float64](testContext(t, 44100))
	sync := testutil.DC(true, 64)
	out := o.Process(OscParams[float64]{
		Note:  testutil.DC(60.0, 64),
		Shape: make([]float64, 64),
		Sync:  sync,
	})
	for i, v := range out.Sine {
		if v != 0 {
			t.Fatalf("sine[%d] = %v with the phase held at zero", i, v)
		}
	}
}

func TestOscFxPMatchesFloat(t *testing.T) {
	const n = 2048
	o := NewOsc[float64](testContext(t, 44100))
	ox := NewOscFxP(testContextFxP(t, 44100))

	// Notes on the semitone grid where both pitch conversions agree closely.
	note := testutil.DC(57.0, n)
	shape := testutil.DC(0.5, n)
	want := o.Process(OscParams[float64]{Note: note, Shape: shape})
	got := ox.Process(OscParamsFxP{
		Note:  testutil.ToFixedNotes(note),
		Shape: testutil.DC(fixed.ScalarFromFloat(0.5), n),
	})
	for name, pair := range map[string][2][]float64{
		"sine":     {testutil.FromFixed(got.Sine), want.Sine},
		"triangle": {testutil.FromFixed(got.Triangle), want.Triangle},
	} {
		d, err := testutil.MaxAbsDiff(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if d > 0.01 {
			t.Errorf("%s: max diff %v", name, d)
		}
	}
}

func TestOscSquarePulseWidth(t *testing.T) {
	o := NewOsc[float64](testContext(t, 48000))
	const n = 48000
	for _, tc := range []struct {
		shape, duty float64
	}{
		{0, 0.5},
		{1, 0.05},
	} {
		o.Reset()
		high := 0
		note := testutil.DC(45.0, BufferSize)
		shape := testutil.DC(tc.shape, BufferSize)
		for rendered := 0; rendered < n; {
			out := o.Process(OscParams[float64]{Note: note, Shape: shape})
			for _, v := range out.Square {
				if v > 0 {
					high++
				}
			}
			rendered += len(out.Square)
		}
		if duty := float64(high) / n; math.Abs(duty-tc.duty) > 0.01 {
			t.Fatalf("shape=%v: duty %v, want %v", tc.shape, duty, tc.duty)
		}
	}
}

func TestMixOscLevels(t *testing.T) {
	ctx := testContext(t, 44100)
	m := NewMixOsc[float64](ctx)
	o := NewOsc[float64](ctx)
	const n = 200
	note := testutil.DC(64.0, n)
	shape := testutil.DC(0.2, n)
	zero := make([]float64, n)

	got, sync := m.Process(MixOscParams[float64]{
		Osc:  OscParams[float64]{Note: note, Shape: shape},
		Sine: testutil.DC(0.5, n), Triangle: zero, Square: zero, Saw: testutil.DC(0.25, n),
	})
	ref := o.Process(OscParams[float64]{Note: note, Shape: shape})
	want := make([]float64, n)
	for i := range want {
		want[i] = 0.5*ref.Sine[i] + 0.25*ref.Saw[i]
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
	if len(sync) != n {
		t.Fatalf("sync len = %d, want %d", len(sync), n)
	}
}

func TestMixOscFxPSaturates(t *testing.T) {
	m := NewMixOscFxP(testContextFxP(t, 44100))
	const n = 100
	full := testutil.DC(fixed.ScalarMax, n)
	out, _ := m.Process(MixOscParamsFxP{
		Osc:  OscParamsFxP{Note: testutil.DC(fixed.NoteFromFloat(30), n), Shape: make([]fixed.Scalar, n)},
		Sine: full, Triangle: full, Square: full, Saw: full,
	})
	if len(out) != n {
		t.Fatalf("len = %d", len(out))
	}
	for i, v := range out {
		if math.Abs(v.Float()) > 4.01 {
			t.Fatalf("sample %d = %v exceeds the sum of four unit waves", i, v.Float())
		}
	}
}
