package device

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

// runFilter streams in through f in device-sized chunks with constant
// parameters and returns the concatenated outputs.
func runFilter(f *Filter[float64], in []float64, cutoff, res float64) FilterOutput[float64] {
	c := testutil.DC(cutoff, BufferSize)
	r := testutil.DC(res, BufferSize)
	var all FilterOutput[float64]
	for pos := 0; pos < len(in); {
		out := f.Process(in[pos:], FilterParams[float64]{Cutoff: c, Resonance: r})
		all.Low = append(all.Low, out.Low...)
		all.Band = append(all.Band, out.Band...)
		all.High = append(all.High, out.High...)
		pos += len(out.Low)
	}
	return all
}

func runFilterFxP(f *FilterFxP, in []fixed.Sample, cutoff, res float64) FilterOutput[fixed.Sample] {
	c := testutil.DC(fixed.NoteFromFloat(cutoff), BufferSize)
	r := testutil.DC(fixed.ScalarFromFloat(res), BufferSize)
	var all FilterOutput[fixed.Sample]
	for pos := 0; pos < len(in); {
		out := f.Process(in[pos:], FilterParamsFxP{Cutoff: c, Resonance: r})
		all.Low = append(all.Low, out.Low...)
		all.Band = append(all.Band, out.Band...)
		all.High = append(all.High, out.High...)
		pos += len(out.Low)
	}
	return all
}

func TestFilterStability(t *testing.T) {
	ctx := testContext(t, 44100)
	const n = 10000
	inputs := map[string][]float64{
		"impulse": testutil.Impulse[float64](n, 0),
		"step":    testutil.Ones[float64](n),
	}
	for name, in := range inputs {
		for res := 0.0; res < 1; res += 0.125 {
			for cutoff := 0.0; cutoff <= NoteMax; cutoff += 16 {
				out := runFilter(NewFilter[float64](ctx), in, cutoff, res)
				// Resonance is capped at ResMax so the peak gain stays finite.
				for _, s := range [][]float64{out.Low, out.Band, out.High} {
					testutil.RequireBounded(t, s, 100)
				}
				if t.Failed() {
					t.Fatalf("%s: res=%v cutoff=%v", name, res, cutoff)
				}
			}
		}
	}
}

func TestFilterResonanceAboveOneIsClamped(t *testing.T) {
	ctx := testContext(t, 44100)
	in := testutil.Impulse[float64](20000, 0)
	out := runFilter(NewFilter[float64](ctx), in, 69, 1.5)
	testutil.RequireFinite(t, out.Band)
	tail := out.Band[len(out.Band)-100:]
	if p := testutil.Peak(tail); p > 1e-3 {
		t.Fatalf("impulse response still ringing at %v after 20000 samples", p)
	}
}

func TestFilterDCPassthrough(t *testing.T) {
	ctx := testContext(t, 44100)
	in := testutil.DC(0.5, 20000)
	out := runFilter(NewFilter[float64](ctx), in, 40, 0)

	last := len(in) - 1
	if math.Abs(out.Low[last]-0.5) > 1e-4 {
		t.Fatalf("low-pass DC = %v, want 0.5", out.Low[last])
	}
	if math.Abs(out.High[last]) > 1e-4 {
		t.Fatalf("high-pass DC = %v, want 0", out.High[last])
	}
	if math.Abs(out.Band[last]) > 1e-3 {
		t.Fatalf("band-pass DC = %v, want 0", out.Band[last])
	}
}

func TestFilterFxPDCPassthrough(t *testing.T) {
	for _, sr := range fixed.SupportedRates() {
		ctx := testContextFxP(t, sr)
		in := testutil.DC(fixed.SampleFromFloat(0.5), 40000)
		out := runFilterFxP(NewFilterFxP(ctx), in, 40, 0)

		last := len(in) - 1
		if d := math.Abs(out.Low[last].Float() - 0.5); d > 0.005 {
			t.Fatalf("%d: low-pass DC = %v, want 0.5", sr, out.Low[last].Float())
		}
		if d := math.Abs(out.High[last].Float()); d > 0.005 {
			t.Fatalf("%d: high-pass DC = %v, want 0", sr, out.High[last].Float())
		}
	}
}

func TestFilterFxPStability(t *testing.T) {
	ctx := testContextFxP(t, 44100)
	const n = 10000
	step := testutil.ToFixed(testutil.Ones[float64](n))
	impulse := testutil.ToFixed(testutil.Impulse[float64](n, 0))
	for res := 0.0; res < 1; res += 0.125 {
		for cutoff := 32.0; cutoff < 128; cutoff += 16 {
			// Saturation bounds every output, so check that the recursion
			// settles instead of latching at the rails.
			out := runFilterFxP(NewFilterFxP(ctx), step, cutoff, res)
			if got := out.Low[n-1].Float(); math.Abs(got-1) > 0.05 {
				t.Fatalf("res=%v cutoff=%v: step low-pass settled at %v", res, cutoff, got)
			}
			out = runFilterFxP(NewFilterFxP(ctx), impulse, cutoff, res)
			if p := testutil.Peak(testutil.FromFixed(out.Band[n-64:])); p > 0.05 {
				t.Fatalf("res=%v cutoff=%v: band-pass tail still at %v", res, cutoff, p)
			}
		}
	}
}

func TestFilterFxPFullNoteRange(t *testing.T) {
	ctx := testContextFxP(t, 44100)
	// Long enough for note 0 at maximum resonance to ring down.
	const n = 1 << 16
	dc := testutil.ToFixed(testutil.DC(0.5, n))
	cutoffs := []float64{NoteMax}
	for c := 0.0; c < NoteMax; c += 4 {
		cutoffs = append(cutoffs, c)
	}
	for _, res := range []float64{0, 0.5, 1} {
		for _, cutoff := range cutoffs {
			out := runFilterFxP(NewFilterFxP(ctx), dc, cutoff, res)
			for name, y := range map[string][]fixed.Sample{"low": out.Low, "band": out.Band, "high": out.High} {
				if p := testutil.Peak(testutil.FromFixed(y)); p > 2 {
					t.Fatalf("res=%v cutoff=%v: %s peak %v", res, cutoff, name, p)
				}
			}
			if got := out.Low[n-1].Float(); math.Abs(got-0.5) > 0.02 {
				t.Fatalf("res=%v cutoff=%v: DC low-pass settled at %v, want 0.5", res, cutoff, got)
			}
			if got := out.High[n-1].Float(); math.Abs(got) > 0.02 {
				t.Fatalf("res=%v cutoff=%v: DC high-pass settled at %v, want 0", res, cutoff, got)
			}
		}
	}
}

func TestFilterFxPMatchesFloat(t *testing.T) {
	const n = 4096
	ctx := testContext(t, 44100)
	ctxFxP := testContextFxP(t, 44100)
	in := testutil.DeterministicSine[float64](220, 44100, 0.5, n)

	// Cutoffs well below half Nyquist where the fixed-point tangent is accurate.
	for _, cutoff := range []float64{48, 60, 84} {
		for _, res := range []float64{0, 0.5, 0.8} {
			want := runFilter(NewFilter[float64](ctx), in, cutoff, res)
			got := runFilterFxP(NewFilterFxP(ctxFxP), testutil.ToFixed(in), cutoff, res)
			for name, pair := range map[string][2][]float64{
				"low":  {testutil.FromFixed(got.Low), want.Low},
				"band": {testutil.FromFixed(got.Band), want.Band},
				"high": {testutil.FromFixed(got.High), want.High},
			} {
				d, err := testutil.MaxAbsDiff(pair[0], pair[1])
				if err != nil {
					t.Fatal(err)
				}
				if d > 0.05 {
					t.Errorf("cutoff=%v res=%v %s: max diff %v", cutoff, res, name, d)
				}
			}
		}
	}
}

func TestFilterFxPProcessDoesNotAllocate(t *testing.T) {
	f := NewFilterFxP(testContextFxP(t, 48000))
	in := testutil.ToFixed(testutil.DeterministicNoise[float64](1, 0.5, BufferSize))
	p := FilterParamsFxP{
		Cutoff:    testutil.DC(fixed.NoteFromFloat(72), BufferSize),
		Resonance: testutil.DC(fixed.ScalarFromFloat(0.4), BufferSize),
	}
	if allocs := testing.AllocsPerRun(100, func() { f.Process(in, p) }); allocs != 0 {
		t.Fatalf("Process allocated %v times", allocs)
	}
}
