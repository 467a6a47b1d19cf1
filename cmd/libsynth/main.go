// Command libsynth builds the synthesizer as a C shared library:
//
//	go build -buildmode=c-shared -o libsynth.so ./cmd/libsynth
//
// Every entry point forwards to package bindings. Pointers are borrowed for
// the duration of the call only.
package main

// #include <stdint.h>
import "C"

import (
	"unsafe"

	"github.com/cwbudde/algo-synth/bindings"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

func main() {}

// view borrows n elements at p; nil stays nil so bindings reports it.
func view[T, P any](p *P, n int) []T {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(p)), n)
}

func span(samples, offset C.uint32_t) int { return int(samples) + int(offset) }

//export synth_free
func synth_free(h C.uint64_t) C.int32_t {
	return C.int32_t(bindings.Free(bindings.Handle(h)))
}

//export synth_filt_f32_new
func synth_filt_f32_new(sampleRate C.double) C.uint64_t {
	return C.uint64_t(bindings.NewFilter(float64(sampleRate)))
}

//export synth_filt_u16_new
func synth_filt_u16_new(sampleRate C.uint32_t) C.uint64_t {
	return C.uint64_t(bindings.NewFilterFxP(uint32(sampleRate)))
}

//export synth_amp_f32_new
func synth_amp_f32_new() C.uint64_t { return C.uint64_t(bindings.NewAmp()) }

//export synth_amp_u16_new
func synth_amp_u16_new() C.uint64_t { return C.uint64_t(bindings.NewAmpFxP()) }

//export synth_filt_f32_process
func synth_filt_f32_process(h C.uint64_t, samples C.uint32_t,
	input, cutoff, resonance, low, band, high *C.float, offset C.uint32_t,
) C.int32_t {
	n := span(samples, offset)
	return C.int32_t(bindings.FilterProcess(bindings.Handle(h), int(samples),
		view[float32](input, n), view[float32](cutoff, n), view[float32](resonance, n),
		view[float32](low, n), view[float32](band, n), view[float32](high, n), int(offset)))
}

//export synth_filt_u16_process
func synth_filt_u16_process(h C.uint64_t, samples C.uint32_t,
	input *C.int16_t, cutoff, resonance *C.uint16_t, low, band, high *C.int16_t, offset C.uint32_t,
) C.int32_t {
	n := span(samples, offset)
	return C.int32_t(bindings.FilterFxPProcess(bindings.Handle(h), int(samples),
		view[fixed.Sample](input, n), view[fixed.Note](cutoff, n), view[fixed.Scalar](resonance, n),
		view[fixed.Sample](low, n), view[fixed.Sample](band, n), view[fixed.Sample](high, n), int(offset)))
}

//export synth_amp_f32_process
func synth_amp_f32_process(h C.uint64_t, samples C.uint32_t, input, gain, out *C.float, offset C.uint32_t) C.int32_t {
	n := span(samples, offset)
	return C.int32_t(bindings.AmpProcess(bindings.Handle(h), int(samples),
		view[float32](input, n), view[float32](gain, n), view[float32](out, n), int(offset)))
}

//export synth_amp_u16_process
func synth_amp_u16_process(h C.uint64_t, samples C.uint32_t, input *C.int16_t, gain *C.uint16_t, out *C.int16_t, offset C.uint32_t) C.int32_t {
	n := span(samples, offset)
	return C.int32_t(bindings.AmpFxPProcess(bindings.Handle(h), int(samples),
		view[fixed.Sample](input, n), view[fixed.USample](gain, n), view[fixed.Sample](out, n), int(offset)))
}

//export synth_engine_new
func synth_engine_new(sampleRate C.double, voices, blockSize C.int32_t, fixedPoint C.int32_t) C.uint64_t {
	return C.uint64_t(bindings.NewEngine(
		core.WithSampleRate(float64(sampleRate)),
		core.WithVoices(int(voices)),
		core.WithBlockSize(int(blockSize)),
		core.WithFixedPoint(fixedPoint != 0),
	))
}

//export synth_engine_note_on
func synth_engine_note_on(h C.uint64_t, note, velocity C.double) C.int32_t {
	return C.int32_t(bindings.EngineNoteOn(bindings.Handle(h), float64(note), float64(velocity)))
}

//export synth_engine_note_off
func synth_engine_note_off(h C.uint64_t, note C.double) C.int32_t {
	return C.int32_t(bindings.EngineNoteOff(bindings.Handle(h), float64(note)))
}

//export synth_engine_process
func synth_engine_process(h C.uint64_t, samples C.uint32_t, out *C.float, offset C.uint32_t) C.int32_t {
	return C.int32_t(bindings.EngineProcess(bindings.Handle(h), int(samples),
		view[float32](out, span(samples, offset)), int(offset)))
}
