package voice

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func BenchmarkVoiceRender(b *testing.B) {
	ctx, _ := core.NewContext(48000)
	v := New[float32](ctx)
	v.Initialize(512)
	p := DefaultParams()
	v.NoteOn(60, 1, false)
	b.ReportAllocs()
	b.SetBytes(512 * 4)
	for i := 0; i < b.N; i++ {
		v.Render(512, p, Controls{})
	}
}

func BenchmarkVoiceFxPRender(b *testing.B) {
	ctx, _ := core.MaybeNewContextFxP(48000)
	v := NewFxP(ctx)
	v.Initialize(512)
	q := NewParamsFxP(DefaultParams(), 48000)
	v.NoteOn(60, 1, false)
	b.ReportAllocs()
	b.SetBytes(512 * 2)
	for i := 0; i < b.N; i++ {
		v.Render(512, q, Controls{})
	}
}
