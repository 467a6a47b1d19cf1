package core

import (
	"math"
	"testing"
)

func TestMidiNoteToFrequency(t *testing.T) {
	tests := []struct {
		note float64
		want float64
	}{
		{69, 440},
		{57, 220},
		{81, 880},
		{60, 261.6255653},
	}
	for _, tc := range tests {
		if got := MidiNoteToFrequency(tc.note); math.Abs(got-tc.want) > tc.want*1e-6 {
			t.Fatalf("MidiNoteToFrequency(%v) = %v, want %v", tc.note, got, tc.want)
		}
	}
}

func TestNoteFrequencyRoundTrip(t *testing.T) {
	for n := 0.0; n < 128; n += 0.5 {
		if got := FrequencyToNote(MidiNoteToFrequency(n)); math.Abs(got-n) > 1e-6 {
			t.Fatalf("round trip %v -> %v", n, got)
		}
		n32 := float32(n)
		if got := FrequencyToNote(MidiNoteToFrequency(n32)); math.Abs(float64(got-n32)) > 1e-3 {
			t.Fatalf("float32 round trip %v -> %v", n32, got)
		}
	}
}

func TestFrequencyToNoteNonPositive(t *testing.T) {
	if got := FrequencyToNote(0.0); !math.IsInf(got, -1) {
		t.Fatalf("FrequencyToNote(0) = %v, want -Inf", got)
	}
}
