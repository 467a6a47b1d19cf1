package bindings

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
	"github.com/cwbudde/algo-synth/dsp/voicealloc"
)

// NewEngine builds an engine from the render options. It returns 0 when the
// configuration is unusable.
func NewEngine(opts ...core.RenderOption) Handle {
	cfg := core.ApplyRenderOptions(opts...)
	alloc, err := voicealloc.New(cfg)
	if err != nil {
		return 0
	}
	e, err := engine.New(alloc, engine.WithBlockSize(cfg.BlockSize))
	if err != nil {
		return 0
	}
	return register(e)
}

// EngineNoteOn queues a note. It returns 0, a negative status, or 1 when
// the event queue is full.
func EngineNoteOn(h Handle, note, velocity float64) int32 {
	e, st := lookup[*engine.Engine](h)
	if st != 0 {
		return st
	}
	if !e.NoteOn(note, velocity) {
		return 1
	}
	return 0
}

// EngineNoteOff queues a note release; see EngineNoteOn.
func EngineNoteOff(h Handle, note float64) int32 {
	e, st := lookup[*engine.Engine](h)
	if st != 0 {
		return st
	}
	if !e.NoteOff(note) {
		return 1
	}
	return 0
}

// EngineProcess renders samples frames into out at offset.
func EngineProcess(h Handle, samples int, out []float32, offset int) int32 {
	if out == nil {
		return StatusNull
	}
	e, st := lookup[*engine.Engine](h)
	if st != 0 {
		return st
	}
	n, st := window(samples, offset, len(out))
	if st != 0 {
		return st
	}
	e.Process(out[offset : offset+n])
	return int32(n)
}
