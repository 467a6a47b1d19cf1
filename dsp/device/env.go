package device

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// Stage is the state of an envelope generator.
type Stage uint8

const (
	// StageIdle is the terminal state after release; the level is zero.
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// EnvParams are the per-sample parameter streams of an Env. Times are the
// seconds a stage needs to ramp through full scale; Sustain is a level in
// [0, 1].
type EnvParams[T core.Float] struct {
	Attack  []T
	Decay   []T
	Sustain []T
	Release []T
}

// Env is a linear ADSR envelope generator.
//
// A rising gate starts the attack from the current level, so retriggering a
// sounding note does not click. A falling gate enters release from whatever
// stage is active. Release ends in StageIdle.
type Env[T core.Float] struct {
	fs    float64
	stage Stage
	level float64
	gate  bool

	out [BufferSize]T
}

// NewEnv returns an idle envelope at the context's sample rate.
func NewEnv[T core.Float](ctx core.Context) *Env[T] {
	return &Env[T]{fs: ctx.SampleRate()}
}

// Stage returns the current stage.
func (e *Env[T]) Stage() Stage { return e.stage }

// Level returns the most recent output level.
func (e *Env[T]) Level() float64 { return e.level }

// Trigger restarts the attack from the current level as a rising gate would,
// even when the gate is already high.
func (e *Env[T]) Trigger() {
	e.stage, e.gate = StageAttack, true
}

// Reset forces the envelope to idle at zero.
func (e *Env[T]) Reset() {
	e.stage, e.level, e.gate = StageIdle, 0, false
}

// step returns the per-sample increment for a full-scale ramp of t seconds.
func (e *Env[T]) step(t T) float64 {
	if t <= 0 {
		return 1
	}
	return 1 / (float64(t) * e.fs)
}

// Process advances the envelope by min(len(every stream), BufferSize) samples.
func (e *Env[T]) Process(p EnvParams[T], gate []bool) []T {
	n := core.MinLen(len(gate), len(p.Attack), len(p.Decay), len(p.Sustain), len(p.Release))
	for i := 0; i < n; i++ {
		switch {
		case gate[i] && !e.gate:
			e.stage = StageAttack
		case !gate[i] && e.gate && e.stage != StageIdle:
			e.stage = StageRelease
		}
		e.gate = gate[i]

		sustain := core.Clamp(float64(p.Sustain[i]), 0, 1)
		switch e.stage {
		case StageAttack:
			e.level += e.step(p.Attack[i])
			if e.level >= 1 {
				e.level, e.stage = 1, StageDecay
			}
		case StageDecay:
			e.level -= e.step(p.Decay[i])
			if e.level <= sustain {
				e.level, e.stage = sustain, StageSustain
			}
		case StageSustain:
			e.level = sustain
		case StageRelease:
			e.level -= e.step(p.Release[i])
			if e.level <= 0 {
				e.level, e.stage = 0, StageIdle
			}
		}
		e.out[i] = T(e.level)
	}
	return e.out[:n]
}

// EnvParamsFxP are the per-sample parameter streams of an EnvFxP.
type EnvParamsFxP struct {
	Attack  []fixed.EnvParam
	Decay   []fixed.EnvParam
	Sustain []fixed.Scalar
	Release []fixed.EnvParam
}

// envOne is full scale of the U1F31 envelope level.
const envOne = 1 << 31

// EnvFxP is the fixed-point ADSR. The level is a U1F31 accumulator advanced by
// increments taken from the context's precomputed rate constants.
type EnvFxP struct {
	rate  fixed.Rate
	stage Stage
	level uint32
	gate  bool

	out [BufferSize]fixed.Scalar
}

// NewEnvFxP returns an idle fixed-point envelope.
func NewEnvFxP(ctx core.ContextFxP) *EnvFxP {
	return &EnvFxP{rate: ctx.Rate()}
}

// Stage returns the current stage.
func (e *EnvFxP) Stage() Stage { return e.stage }

// Level returns the most recent output level.
func (e *EnvFxP) Level() fixed.Scalar { return e.scalar() }

// Trigger restarts the attack from the current level.
func (e *EnvFxP) Trigger() {
	e.stage, e.gate = StageAttack, true
}

// Reset forces the envelope to idle at zero.
func (e *EnvFxP) Reset() {
	e.stage, e.level, e.gate = StageIdle, 0, false
}

func (e *EnvFxP) scalar() fixed.Scalar {
	return fixed.SaturateScalar(int64(e.level), 31)
}

// Process advances the envelope with the same length rule as Env.Process.
func (e *EnvFxP) Process(p EnvParamsFxP, gate []bool) []fixed.Scalar {
	n := core.MinLen(len(gate), len(p.Attack), len(p.Decay), len(p.Sustain), len(p.Release))
	for i := 0; i < n; i++ {
		switch {
		case gate[i] && !e.gate:
			e.stage = StageAttack
		case !gate[i] && e.gate && e.stage != StageIdle:
			e.stage = StageRelease
		}
		e.gate = gate[i]

		sustain := uint32(p.Sustain[i]) << (31 - fixed.ScalarFrac)
		switch e.stage {
		case StageAttack:
			next := uint64(e.level) + uint64(e.rate.EnvIncrement(p.Attack[i]))
			if next >= envOne {
				e.level, e.stage = envOne, StageDecay
			} else {
				e.level = uint32(next)
			}
		case StageDecay:
			inc := e.rate.EnvIncrement(p.Decay[i])
			if e.level <= sustain+inc {
				e.level, e.stage = sustain, StageSustain
			} else {
				e.level -= inc
			}
		case StageSustain:
			e.level = sustain
		case StageRelease:
			inc := e.rate.EnvIncrement(p.Release[i])
			if e.level <= inc {
				e.level, e.stage = 0, StageIdle
			} else {
				e.level -= inc
			}
		}
		e.out[i] = e.scalar()
	}
	return e.out[:n]
}
