package device

import "github.com/cwbudde/algo-synth/dsp/core"

// BufferSize is the capacity of every device output buffer.
const BufferSize = core.BlockCapacity

// Float-domain parameter limits.
const (
	// ResMax is the resonance stability ceiling.
	ResMax = float64(0xF000) / 0xFFFF
	// NoteMax is the highest note value a device accepts.
	NoteMax = 127 * float64(0xFFFF) / 0x10000
	// EnvRange is the cutoff swing in semitones at full envelope modulation.
	EnvRange = 96
	// KeyTrackCenter is the note at which keyboard tracking has no effect.
	KeyTrackCenter = 60
)

// optLen returns len(s), or BufferSize for a nil optional stream.
func optLen[T any](s []T) int {
	if s == nil {
		return BufferSize
	}
	return len(s)
}
