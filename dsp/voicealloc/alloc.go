package voicealloc

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/voice"
)

// VoiceAllocator turns note events into a mixed block of audio. Apart from
// Initialize, every method is safe to call from the audio thread: none of
// them allocate, lock or block.
type VoiceAllocator interface {
	// Initialize sizes all buffers for blocks of up to blockSize frames.
	Initialize(blockSize int)
	NoteOn(note, velocity float64)
	NoteOff(note float64)
	// SetParams replaces the patch. p must not be modified afterwards.
	SetParams(p *voice.Params)
	SetControls(c voice.Controls)
	// RenderBlock mixes every active voice. The returned view is valid
	// until the next call.
	RenderBlock(frames int) []float32
	ActiveVoices() int
	// Reset silences every voice and forgets held notes.
	Reset()
}

var (
	_ VoiceAllocator = (*Mono)(nil)
	_ VoiceAllocator = (*Poly)(nil)
)

// MaxHeldNotes bounds the mono note stack.
const MaxHeldNotes = 128

type heldNote struct {
	note, velocity float64
}

// Mono plays one voice with last-note priority. A note played while another
// is held glides legato when the patch has a glide time; otherwise it
// retriggers the envelopes.
type Mono struct {
	mixer
	held []heldNote
}

// NewMono returns a floating-point mono allocator playing DefaultParams.
func NewMono[T core.Float](ctx core.Context, opts ...device.LFOOption) *Mono {
	m := &Mono{held: make([]heldNote, 0, MaxHeldNotes)}
	m.params = voice.DefaultParams()
	m.voices = newFloatSlots[T](1, ctx, &m.shared, opts)
	return m
}

// NewMonoFxP returns a fixed-point mono allocator playing DefaultParams.
func NewMonoFxP(ctx core.ContextFxP, opts ...device.LFOOption) *Mono {
	m := &Mono{held: make([]heldNote, 0, MaxHeldNotes)}
	m.initFxP(ctx)
	m.voices = newFxPSlots(1, ctx, &m.shared, opts)
	return m
}

func (m *Mono) legato() bool { return m.params.Glide > 0 }

func (m *Mono) remove(note float64) (wasTop bool) {
	for i := len(m.held) - 1; i >= 0; i-- {
		if m.held[i].note == note {
			wasTop = i == len(m.held)-1
			m.held = append(m.held[:i], m.held[i+1:]...)
			return wasTop
		}
	}
	return false
}

// NoteOn makes note the sounding note.
func (m *Mono) NoteOn(note, velocity float64) {
	legato := len(m.held) > 0 && m.legato()
	m.remove(note)
	if len(m.held) == cap(m.held) {
		m.held = append(m.held[:0], m.held[1:]...)
	}
	m.held = append(m.held, heldNote{note, velocity})
	m.voices[0].NoteOn(note, velocity, legato)
}

// NoteOff releases note. Releasing the sounding note while others are held
// returns to the most recent of them.
func (m *Mono) NoteOff(note float64) {
	if !m.remove(note) {
		return
	}
	if len(m.held) == 0 {
		m.voices[0].NoteOff()
		return
	}
	top := m.held[len(m.held)-1]
	m.voices[0].NoteOn(top.note, top.velocity, m.legato())
}

// Reset silences the voice and clears the note stack.
func (m *Mono) Reset() {
	m.held = m.held[:0]
	m.resetVoices()
}

// Poly plays up to a fixed number of notes at once.
//
// A new note takes the first idle voice. Without one it steals the
// releasing voice closest to silence, and failing that the voice whose note
// started first. A note already sounding is retriggered on its own voice.
type Poly struct {
	mixer
	started []uint64
	seq     uint64
}

// NewPoly returns a floating-point allocator with n voices; n below one is
// raised to one.
func NewPoly[T core.Float](n int, ctx core.Context, opts ...device.LFOOption) *Poly {
	n = max(n, 1)
	p := &Poly{started: make([]uint64, n)}
	p.params = voice.DefaultParams()
	p.voices = newFloatSlots[T](n, ctx, &p.shared, opts)
	return p
}

// NewPolyFxP returns a fixed-point allocator with n voices.
func NewPolyFxP(n int, ctx core.ContextFxP, opts ...device.LFOOption) *Poly {
	n = max(n, 1)
	p := &Poly{started: make([]uint64, n)}
	p.initFxP(ctx)
	p.voices = newFxPSlots(n, ctx, &p.shared, opts)
	return p
}

// Voices returns the pool size.
func (p *Poly) Voices() int { return len(p.voices) }

func (p *Poly) pick(note float64) int {
	for i, v := range p.voices {
		if v.Active() && v.Note() == note {
			return i
		}
	}
	for i, v := range p.voices {
		if !v.Active() {
			return i
		}
	}
	best := -1
	for i, v := range p.voices {
		if v.Gate() {
			continue
		}
		if best < 0 || v.Level() < p.voices[best].Level() {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	best = 0
	for i := range p.voices {
		if p.started[i] < p.started[best] {
			best = i
		}
	}
	return best
}

// NoteOn assigns note to a voice.
func (p *Poly) NoteOn(note, velocity float64) {
	i := p.pick(note)
	p.seq++
	p.started[i] = p.seq
	p.voices[i].NoteOn(note, velocity, false)
}

// NoteOff releases every held voice playing note.
func (p *Poly) NoteOff(note float64) {
	for _, v := range p.voices {
		if v.Gate() && v.Note() == note {
			v.NoteOff()
		}
	}
}

// Reset silences every voice.
func (p *Poly) Reset() {
	p.resetVoices()
	clear(p.started)
	p.seq = 0
}
