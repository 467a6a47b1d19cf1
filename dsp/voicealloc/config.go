package voicealloc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/device"
)

// New builds the allocator described by cfg: mono for one voice, poly
// otherwise, in the numeric domain cfg selects. The result is not yet
// initialized. Fixed-point configurations fail for rates without
// precomputed constants.
func New(cfg core.RenderConfig, opts ...device.LFOOption) (VoiceAllocator, error) {
	if cfg.FixedPoint {
		sr := cfg.SampleRate
		if sr != math.Trunc(sr) || sr <= 0 || sr > math.MaxUint32 {
			return nil, fmt.Errorf("voicealloc: fixed-point sample rate must be an integer: %g", sr)
		}
		ctx, ok := core.MaybeNewContextFxP(uint32(sr))
		if !ok {
			return nil, fmt.Errorf("voicealloc: no fixed-point support for %g Hz", sr)
		}
		if cfg.Voices == 1 {
			return NewMonoFxP(ctx, opts...), nil
		}
		return NewPolyFxP(cfg.Voices, ctx, opts...), nil
	}
	ctx, err := core.NewContext(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	if cfg.Voices == 1 {
		return NewMono[float32](ctx, opts...), nil
	}
	return NewPoly[float32](cfg.Voices, ctx, opts...), nil
}
