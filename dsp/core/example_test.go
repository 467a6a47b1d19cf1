package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func ExampleApplyRenderOptions() {
	cfg := core.ApplyRenderOptions(
		core.WithSampleRate(48000),
		core.WithVoices(4),
	)

	fmt.Printf("sampleRate=%.0f voices=%d fixed=%v\n", cfg.SampleRate, cfg.Voices, cfg.FixedPoint)

	// Output:
	// sampleRate=48000 voices=4 fixed=false
}

func ExampleMaybeNewContextFxP() {
	for _, sr := range []uint32{44100, 22050} {
		ctx, ok := core.MaybeNewContextFxP(sr)
		fmt.Println(sr, ok, ctx.SampleRate())
	}

	// Output:
	// 44100 true 44100
	// 22050 false 0
}

func ExampleMidiNoteToFrequency() {
	fmt.Printf("%.2f %.2f\n", core.MidiNoteToFrequency(69.0), core.MidiNoteToFrequency(60.0))

	// Output:
	// 440.00 261.63
}
