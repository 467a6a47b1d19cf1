package analysis

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

const testRate = 48000

func TestSineFundamental(t *testing.T) {
	sig := testutil.DeterministicSine[float64](1000, testRate, 0.8, 8192)
	r, err := Analyze(sig, testRate, 3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Fundamental-1000) > 2 {
		t.Fatalf("fundamental = %g, want 1000", r.Fundamental)
	}
	if r.THD > 1e-3 {
		t.Fatalf("THD = %g, want ~0", r.THD)
	}
	if len(r.Partials) == 0 || math.Abs(r.Partials[0]-1000) > 2 {
		t.Fatalf("partials = %v", r.Partials)
	}
}

func TestSawHarmonicSeries(t *testing.T) {
	ctx, err := core.NewContext(testRate)
	if err != nil {
		t.Fatal(err)
	}
	osc := device.NewOsc[float64](ctx)
	const n = 8192
	// 375 Hz lands on an exact bin.
	note := 69 + 12*math.Log2(375.0/440)
	notes := testutil.DC(note, device.BufferSize)
	shape := make([]float64, device.BufferSize)
	saw := make([]float64, 0, n)
	for len(saw) < n {
		out := osc.Process(device.OscParams[float64]{Note: notes, Shape: shape})
		saw = append(saw, out.Saw...)
	}
	r, err := Analyze(saw, testRate, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Fundamental-375) > 2 {
		t.Fatalf("fundamental = %g, want 375", r.Fundamental)
	}
	// A sawtooth's k-th harmonic has amplitude 1/k.
	for i, want := range []float64{1.0 / 2, 1.0 / 3, 1.0 / 4} {
		if got := r.Harmonics[i]; math.Abs(got-want) > 0.05 {
			t.Fatalf("harmonic %d = %g, want %g", i+2, got, want)
		}
	}
}

func TestPeaksOrdered(t *testing.T) {
	a := testutil.DeterministicSine[float64](500, testRate, 1, 4096)
	b := testutil.DeterministicSine[float64](3000, testRate, 0.25, 4096)
	for i := range a {
		a[i] += b[i]
	}
	r, err := Analyze(a, testRate, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Partials) != 2 {
		t.Fatalf("partials = %v", r.Partials)
	}
	if math.Abs(r.Partials[0]-500) > 10 || math.Abs(r.Partials[1]-3000) > 10 {
		t.Fatalf("partials = %v, want [500 3000]", r.Partials)
	}
}

func TestAnalyzeRejects(t *testing.T) {
	if _, err := Analyze([]float64{1}, testRate, 1); err == nil {
		t.Fatal("short signal accepted")
	}
	if _, err := Analyze(make([]float64, 64), 0, 1); err == nil {
		t.Fatal("zero rate accepted")
	}
}
