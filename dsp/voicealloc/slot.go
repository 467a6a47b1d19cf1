package voicealloc

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/voice"
	"github.com/cwbudde/algo-vecmath"
)

// shared holds the state every voice of one allocator renders from.
type shared struct {
	params     *voice.Params
	fxp        *voice.ParamsFxP
	sampleRate uint32
	controls   voice.Controls
}

func (s *shared) initFxP(ctx core.ContextFxP) {
	s.params = voice.DefaultParams()
	s.sampleRate = ctx.SampleRate()
	s.fxp = voice.NewParamsFxP(s.params, s.sampleRate)
}

func (s *shared) setParams(p *voice.Params) {
	if p == nil {
		return
	}
	s.params = p
	if s.fxp != nil {
		s.fxp.Set(p, s.sampleRate)
	}
}

// slot is a voice of either domain that mixes into a float64 bus. Voices
// that do not render float64 widen into scratch first.
type slot interface {
	Initialize(blockSize int)
	NoteOn(note, velocity float64, legato bool)
	NoteOff()
	Active() bool
	Gate() bool
	Note() float64
	Stage() device.Stage
	Level() float64
	Reset()
	mixInto(bus, scratch []float64)
}

type floatSlot[T core.Float] struct {
	*voice.Voice[T]
	s *shared
}

func (f floatSlot[T]) mixInto(bus, scratch []float64) {
	out := f.Render(len(bus), f.s.params, f.s.controls)
	if o, ok := any(out).([]float64); ok {
		vecmath.AddBlockInPlace(bus[:len(o)], o)
		return
	}
	w := scratch[:len(out)]
	for i, x := range out {
		w[i] = float64(x)
	}
	vecmath.AddBlockInPlace(bus[:len(w)], w)
}

type fxpSlot struct {
	*voice.VoiceFxP
	s *shared
}

func (f fxpSlot) mixInto(bus, scratch []float64) {
	out := f.Render(len(bus), f.s.fxp, f.s.controls)
	w := scratch[:len(out)]
	for i, x := range out {
		w[i] = x.Float()
	}
	vecmath.AddBlockInPlace(bus[:len(w)], w)
}

func newFloatSlots[T core.Float](n int, ctx core.Context, s *shared, opts []device.LFOOption) []slot {
	out := make([]slot, n)
	for i := range out {
		out[i] = floatSlot[T]{Voice: voice.New[T](ctx, opts...), s: s}
	}
	return out
}

func newFxPSlots(n int, ctx core.ContextFxP, s *shared, opts []device.LFOOption) []slot {
	out := make([]slot, n)
	for i := range out {
		out[i] = fxpSlot{VoiceFxP: voice.NewFxP(ctx, opts...), s: s}
	}
	return out
}

// mixer owns the bus and output buffers common to both strategies.
type mixer struct {
	shared
	voices  []slot
	bus     []float64
	scratch []float64
	out     []float32
}

func (m *mixer) Initialize(blockSize int) {
	blockSize = max(blockSize, 0)
	m.bus = core.EnsureLen(m.bus, blockSize)
	m.scratch = core.EnsureLen(m.scratch, blockSize)
	m.out = core.EnsureLen(m.out, blockSize)
	for _, v := range m.voices {
		v.Initialize(blockSize)
	}
}

func (m *mixer) SetParams(p *voice.Params) { m.setParams(p) }

func (m *mixer) SetControls(c voice.Controls) { m.controls = c }

func (m *mixer) ActiveVoices() int {
	n := 0
	for _, v := range m.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

func (m *mixer) RenderBlock(frames int) []float32 {
	n := min(max(frames, 0), len(m.bus))
	bus, out := m.bus[:n], m.out[:n]
	if n == 0 {
		return out
	}
	core.Zero(bus)
	for _, v := range m.voices {
		if v.Active() {
			v.mixInto(bus, m.scratch)
		}
	}
	for i, x := range bus {
		out[i] = float32(x)
	}
	return out
}

func (m *mixer) resetVoices() {
	for _, v := range m.voices {
		v.Reset()
	}
}
