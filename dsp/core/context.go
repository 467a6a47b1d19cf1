package core

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/fixed"
)

// Context is the process-wide configuration of the floating-point domain.
// It is immutable once constructed.
type Context struct {
	sampleRate float64
}

// NewContext returns a floating-point context. Any positive, finite sample
// rate is accepted.
func NewContext(sampleRate float64) (Context, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Context{}, fmt.Errorf("core: sample rate must be > 0 and finite: %f", sampleRate)
	}
	return Context{sampleRate: sampleRate}, nil
}

// SampleRate returns the sample rate in Hz.
func (c Context) SampleRate() float64 { return c.sampleRate }

// ContextFxP is the process-wide configuration of the fixed-point domain.
// It carries the precomputed constants for its sample rate.
type ContextFxP struct {
	rate fixed.Rate
}

// MaybeNewContextFxP returns a fixed-point context for sampleRate. ok is
// false when no fixed-point constants exist for that rate; callers must then
// stay in, or fall back to, the floating-point domain.
func MaybeNewContextFxP(sampleRate uint32) (ctx ContextFxP, ok bool) {
	r, ok := fixed.RateFor(sampleRate)
	if !ok {
		return ContextFxP{}, false
	}
	return ContextFxP{rate: r}, true
}

// SampleRate returns the sample rate in Hz.
func (c ContextFxP) SampleRate() uint32 { return c.rate.SampleRate }

// Rate returns the precomputed fixed-point constants.
func (c ContextFxP) Rate() fixed.Rate { return c.rate }
