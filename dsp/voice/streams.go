package voice

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// constant is a device-sized buffer holding a block-constant parameter.
type constant[T any] [device.BufferSize]T

func (c *constant[T]) fill(v T, n int) []T {
	s := c[:n]
	core.Fill(s, v)
	return s
}

type envStreams[T core.Float] struct {
	attack, decay, sustain, release constant[T]
}

func (e *envStreams[T]) fill(p EnvParams, n int) device.EnvParams[T] {
	return device.EnvParams[T]{
		Attack:  e.attack.fill(T(p.Attack), n),
		Decay:   e.decay.fill(T(p.Decay), n),
		Sustain: e.sustain.fill(T(p.Sustain), n),
		Release: e.release.fill(T(p.Release), n),
	}
}

type levelStreams[T core.Float] struct {
	sine, triangle, square, saw constant[T]
}

func (l *levelStreams[T]) fill(p OscParams, n int) (sine, tri, sq, saw []T) {
	return l.sine.fill(T(p.Sine), n), l.triangle.fill(T(p.Triangle), n),
		l.square.fill(T(p.Square), n), l.saw.fill(T(p.Saw), n)
}

type envStreamsFxP struct {
	attack, decay, release constant[fixed.EnvParam]
	sustain                constant[fixed.Scalar]
}

func (e *envStreamsFxP) fill(p envFxP, n int) device.EnvParamsFxP {
	return device.EnvParamsFxP{
		Attack:  e.attack.fill(p.attack, n),
		Decay:   e.decay.fill(p.decay, n),
		Sustain: e.sustain.fill(p.sustain, n),
		Release: e.release.fill(p.release, n),
	}
}

type levelStreamsFxP [4]constant[fixed.Scalar]

func (l *levelStreamsFxP) fill(p oscFxP, n int) (sine, tri, sq, saw []fixed.Scalar) {
	return l[0].fill(p.levels[0], n), l[1].fill(p.levels[1], n),
		l[2].fill(p.levels[2], n), l[3].fill(p.levels[3], n)
}
