package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/voice"
	"github.com/cwbudde/algo-synth/dsp/voicealloc"
)

// ErrNilAllocator is returned when no allocator is supplied.
var ErrNilAllocator = errors.New("engine: nil allocator")

// EventKind identifies a queued control event.
type EventKind uint8

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventControls
)

// Event is one control message for the audio thread.
type Event struct {
	Kind     EventKind
	Note     float64
	Velocity float64
	Controls voice.Controls
}

// Option configures an Engine.
type Option func(*config) error

type config struct {
	queueSize int
	blockSize int
}

// WithQueueSize sets the event queue capacity, rounded up to a power of two.
func WithQueueSize(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("engine: queue size must be positive: %d", n)
		}
		c.queueSize = n
		return nil
	}
}

// WithBlockSize sets the largest block the allocator renders at once.
func WithBlockSize(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("engine: block size must be positive: %d", n)
		}
		c.blockSize = n
		return nil
	}
}

type allocBox struct {
	a voicealloc.VoiceAllocator
}

// Engine owns the allocator on the audio thread. NoteOn, NoteOff,
// SetControls, SetParams and SwapAllocator belong to a single control
// goroutine; Process belongs to the audio goroutine.
type Engine struct {
	events    *Queue[Event]
	params    atomic.Pointer[voice.Params]
	nextAlloc atomic.Pointer[allocBox]
	swaps     atomic.Uint64

	// Audio-thread state.
	alloc     voicealloc.VoiceAllocator
	current   *voice.Params
	controls  voice.Controls
	blockSize int
}

// New returns an engine driving alloc, which it initializes.
func New(alloc voicealloc.VoiceAllocator, opts ...Option) (*Engine, error) {
	if alloc == nil {
		return nil, ErrNilAllocator
	}
	cfg := config{queueSize: 256, blockSize: 512}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	alloc.Initialize(cfg.blockSize)
	return &Engine{
		events:    NewQueue[Event](cfg.queueSize),
		alloc:     alloc,
		blockSize: cfg.blockSize,
	}, nil
}

// BlockSize returns the block size allocators must be initialized with.
func (e *Engine) BlockSize() int { return e.blockSize }

// NoteOn queues a note start. It returns false when the queue is full.
func (e *Engine) NoteOn(note, velocity float64) bool {
	return e.events.Push(Event{Kind: EventNoteOn, Note: note, Velocity: velocity})
}

// NoteOff queues a note release.
func (e *Engine) NoteOff(note float64) bool {
	return e.events.Push(Event{Kind: EventNoteOff, Note: note})
}

// SetControls queues new performance controls.
func (e *Engine) SetControls(c voice.Controls) bool {
	return e.events.Push(Event{Kind: EventControls, Controls: c})
}

// SetParams validates p and publishes it for the next block. p must not be
// modified afterwards.
func (e *Engine) SetParams(p *voice.Params) error {
	if p == nil {
		return errors.New("engine: nil params")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	e.params.Store(p)
	return nil
}

// SwapAllocator publishes a replacement allocator, already initialized with
// BlockSize, for the next block. A swap not yet adopted is superseded.
func (e *Engine) SwapAllocator(a voicealloc.VoiceAllocator) error {
	if a == nil {
		return ErrNilAllocator
	}
	e.nextAlloc.Store(&allocBox{a: a})
	return nil
}

// Swaps returns the number of allocator swaps adopted so far.
func (e *Engine) Swaps() uint64 { return e.swaps.Load() }

func (e *Engine) adopt() {
	if box := e.nextAlloc.Swap(nil); box != nil {
		e.alloc = box.a
		if e.current != nil {
			e.alloc.SetParams(e.current)
		}
		e.alloc.SetControls(e.controls)
		e.swaps.Add(1)
	}
	if p := e.params.Swap(nil); p != nil {
		e.current = p
		e.alloc.SetParams(p)
	}
	for {
		ev, ok := e.events.Pop()
		if !ok {
			return
		}
		switch ev.Kind {
		case EventNoteOn:
			e.alloc.NoteOn(ev.Note, ev.Velocity)
		case EventNoteOff:
			e.alloc.NoteOff(ev.Note)
		case EventControls:
			e.controls = ev.Controls
			e.alloc.SetControls(ev.Controls)
		}
	}
}

// Process fills out with the next len(out) frames. Pending swaps, patches
// and events take effect before the first frame.
func (e *Engine) Process(out []float32) {
	e.adopt()
	for pos := 0; pos < len(out); {
		n := min(len(out)-pos, e.blockSize)
		block := e.alloc.RenderBlock(n)
		copy(out[pos:pos+n], block)
		if len(block) < n {
			clear(out[pos+len(block) : pos+n])
		}
		pos += n
	}
}
