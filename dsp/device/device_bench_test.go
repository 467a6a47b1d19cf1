package device

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/fixed"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func BenchmarkFilter(b *testing.B) {
	ctx := testContext(b, 48000)
	in := testutil.DeterministicNoise[float32](1, 0.5, BufferSize)
	p := FilterParams[float32]{
		Cutoff:    testutil.DC(float32(72), BufferSize),
		Resonance: testutil.DC(float32(0.5), BufferSize),
	}
	f := NewFilter[float32](ctx)
	b.SetBytes(BufferSize * 4)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Process(in, p)
	}
}

func BenchmarkFilterFxP(b *testing.B) {
	ctx := testContextFxP(b, 48000)
	in := testutil.ToFixed(testutil.DeterministicNoise[float64](1, 0.5, BufferSize))
	p := FilterParamsFxP{
		Cutoff:    testutil.DC(fixed.NoteFromFloat(72), BufferSize),
		Resonance: testutil.DC(fixed.ScalarFromFloat(0.5), BufferSize),
	}
	f := NewFilterFxP(ctx)
	b.SetBytes(BufferSize * 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Process(in, p)
	}
}

func BenchmarkOsc(b *testing.B) {
	ctx := testContext(b, 48000)
	p := OscParams[float64]{
		Note:  testutil.DC(57.0, BufferSize),
		Shape: testutil.DC(0.3, BufferSize),
	}
	o := NewOsc[float64](ctx)
	b.SetBytes(BufferSize * 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Process(p)
	}
}

func BenchmarkOscFxP(b *testing.B) {
	ctx := testContextFxP(b, 48000)
	p := OscParamsFxP{
		Note:  testutil.DC(fixed.NoteFromFloat(57), BufferSize),
		Shape: testutil.DC(fixed.ScalarFromFloat(0.3), BufferSize),
	}
	o := NewOscFxP(ctx)
	b.SetBytes(BufferSize * 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Process(p)
	}
}
