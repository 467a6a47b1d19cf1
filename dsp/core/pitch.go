package core

import "math"

// Pitch reference: A4 = MIDI note 69 = 440 Hz, 12 equal-tempered semitones
// per octave.
const (
	referenceNote = 69
	referenceHz   = 440
)

// MidiNoteToFrequency converts a fractional MIDI note number to Hz:
// 440 · 2^((note-69)/12).
func MidiNoteToFrequency[T Float](note T) T {
	return T(referenceHz * exp2((float64(note)-referenceNote)/12))
}

// FrequencyToNote converts Hz to a fractional MIDI note number. Non-positive
// frequencies map to -Inf.
func FrequencyToNote[T Float](hz T) T {
	if hz <= 0 {
		return T(math.Inf(-1))
	}
	return T(referenceNote + 12*math.Log2(float64(hz)/referenceHz))
}
