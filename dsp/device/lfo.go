package device

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// LFOWave selects the LFO waveform.
type LFOWave uint8

const (
	LFOSine LFOWave = iota
	LFOTriangle
	LFOSquare
	LFOSaw
	// LFOSampleHold holds a new random value for each cycle.
	LFOSampleHold
)

func (w LFOWave) String() string {
	switch w {
	case LFOSine:
		return "sine"
	case LFOTriangle:
		return "triangle"
	case LFOSquare:
		return "square"
	case LFOSaw:
		return "saw"
	case LFOSampleHold:
		return "samplehold"
	default:
		return "unknown"
	}
}

// ParseLFOWave returns the waveform named by s.
func ParseLFOWave(s string) (LFOWave, error) {
	for w := LFOSine; w <= LFOSampleHold; w++ {
		if w.String() == s {
			return w, nil
		}
	}
	return 0, fmt.Errorf("device: unknown lfo wave %q", s)
}

const defaultLFOSeed = 1

type lfoConfig struct {
	wave LFOWave
	seed int64
}

// LFOOption configures an LFO or LFOFxP.
type LFOOption func(*lfoConfig)

// WithLFOWave selects the waveform.
func WithLFOWave(w LFOWave) LFOOption {
	return func(c *lfoConfig) { c.wave = w }
}

// WithLFOSeed seeds the sample-and-hold generator.
func WithLFOSeed(seed int64) LFOOption {
	return func(c *lfoConfig) { c.seed = seed }
}

func applyLFOOptions(opts []LFOOption) lfoConfig {
	cfg := lfoConfig{wave: LFOSine, seed: defaultLFOSeed}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// LFOParams are the per-sample streams of an LFO: the rate in Hz and the
// output depth.
type LFOParams[T core.Float] struct {
	Rate  []T
	Depth []T
}

// LFO is a low-frequency bipolar modulation source. Output is depth times a
// waveform in [-1, 1].
type LFO[T core.Float] struct {
	invFs float64
	wave  LFOWave
	phase float64
	held  float64
	rng   *rand.Rand

	out [BufferSize]T
}

// NewLFO returns an LFO at the context's sample rate.
func NewLFO[T core.Float](ctx core.Context, opts ...LFOOption) *LFO[T] {
	cfg := applyLFOOptions(opts)
	l := &LFO[T]{
		invFs: 1 / ctx.SampleRate(),
		wave:  cfg.wave,
		rng:   rand.New(rand.NewSource(cfg.seed)),
	}
	l.held = l.rng.Float64()*2 - 1
	return l
}

// SetWave changes the waveform without resetting the phase.
func (l *LFO[T]) SetWave(w LFOWave) { l.wave = w }

// Reset restarts the phase at zero.
func (l *LFO[T]) Reset() { l.phase = 0 }

// Process renders min(len(Rate), len(Depth), BufferSize) samples.
func (l *LFO[T]) Process(p LFOParams[T]) []T {
	n := core.MinLen(len(p.Rate), len(p.Depth))
	for i := 0; i < n; i++ {
		t := l.phase
		var v float64
		switch l.wave {
		case LFOTriangle:
			v = 1 - 4*math.Abs(t-0.5)
		case LFOSquare:
			v = 1
			if t >= 0.5 {
				v = -1
			}
		case LFOSaw:
			v = 2*t - 1
		case LFOSampleHold:
			v = l.held
		default:
			v = math.Sin(2 * math.Pi * t)
		}
		l.out[i] = p.Depth[i] * T(v)

		l.phase += math.Abs(float64(p.Rate[i])) * l.invFs
		if l.phase >= 1 {
			l.phase -= math.Floor(l.phase)
			l.held = l.rng.Float64()*2 - 1
		}
	}
	return l.out[:n]
}

// LFOParamsFxP are the per-sample streams of an LFOFxP.
type LFOParamsFxP struct {
	Rate  []fixed.Freq
	Depth []fixed.Scalar
}

// LFOFxP is the fixed-point LFO.
type LFOFxP struct {
	rate  fixed.Rate
	wave  LFOWave
	phase uint32
	held  fixed.Sample
	rng   *rand.Rand

	out [BufferSize]fixed.Sample
}

// NewLFOFxP returns a fixed-point LFO.
func NewLFOFxP(ctx core.ContextFxP, opts ...LFOOption) *LFOFxP {
	cfg := applyLFOOptions(opts)
	l := &LFOFxP{
		rate: ctx.Rate(),
		wave: cfg.wave,
		rng:  rand.New(rand.NewSource(cfg.seed)),
	}
	l.held = l.random()
	return l
}

func (l *LFOFxP) random() fixed.Sample {
	return fixed.Sample(l.rng.Int31n(2*int32(fixed.SampleOne)+1) - int32(fixed.SampleOne))
}

// SetWave changes the waveform without resetting the phase.
func (l *LFOFxP) SetWave(w LFOWave) { l.wave = w }

// Reset restarts the phase at zero.
func (l *LFOFxP) Reset() { l.phase = 0 }

// Process renders min(len(Rate), len(Depth), BufferSize) samples.
func (l *LFOFxP) Process(p LFOParamsFxP) []fixed.Sample {
	n := core.MinLen(len(p.Rate), len(p.Depth))
	const one = int32(fixed.SampleOne)
	for i := 0; i < n; i++ {
		t := l.phase
		var v fixed.Sample
		switch l.wave {
		case LFOTriangle:
			tri := int32(t>>18) - 2*one
			if tri < 0 {
				tri = -tri
			}
			v = fixed.Sample(one - tri)
		case LFOSquare:
			v = fixed.SampleOne
			if t >= 1<<31 {
				v = -fixed.SampleOne
			}
		case LFOSaw:
			v = fixed.Sample(int32(t>>19) - one)
		case LFOSampleHold:
			v = l.held
		default:
			v = fixed.Sin(t)
		}
		l.out[i] = v.MulScalar(p.Depth[i])

		next := t + l.rate.PhaseIncrement(p.Rate[i])
		if next < t {
			l.held = l.random()
		}
		l.phase = next
	}
	return l.out[:n]
}
