package core

import (
	"math"
	"testing"
)

func TestNewContext(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewContext(sr); err == nil {
			t.Fatalf("NewContext(%v) expected error", sr)
		}
	}
	ctx, err := NewContext(22050)
	if err != nil {
		t.Fatalf("NewContext(22050): %v", err)
	}
	if ctx.SampleRate() != 22050 {
		t.Fatalf("SampleRate = %v", ctx.SampleRate())
	}
}

func TestMaybeNewContextFxP(t *testing.T) {
	for _, sr := range []uint32{44100, 48000, 88200, 96000} {
		ctx, ok := MaybeNewContextFxP(sr)
		if !ok {
			t.Fatalf("MaybeNewContextFxP(%d) absent", sr)
		}
		if ctx.Rate().SampleRate != sr {
			t.Fatalf("rate = %d, want %d", ctx.Rate().SampleRate, sr)
		}
	}
	for _, sr := range []uint32{0, 8000, 22050, 192000} {
		if _, ok := MaybeNewContextFxP(sr); ok {
			t.Fatalf("MaybeNewContextFxP(%d) should be absent", sr)
		}
	}
}
