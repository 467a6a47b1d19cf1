package fixed

import (
	"math"
	"sort"
)

// semitoneFreq[n] is the frequency of MIDI note n in U16F16, n in [0, 128].
var semitoneFreq [129]Freq

func init() {
	for n := range semitoneFreq {
		semitoneFreq[n] = FreqFromFloat(440 * math.Exp2((float64(n)-69)/12))
	}
}

// NoteToFrequency converts a U7F9 note to Hz using a semitone table with
// linear interpolation between neighbouring semitones. The worst-case error
// is below one cent.
func NoteToFrequency(n Note) Freq {
	s := n >> NoteFrac
	frac := uint64(n & (1<<NoteFrac - 1))
	a := uint64(semitoneFreq[s])
	b := uint64(semitoneFreq[s+1])
	return Freq(a + ((b-a)*frac)>>NoteFrac)
}

// FrequencyToNote is the inverse of NoteToFrequency, saturating outside the
// table range. It divides and is meant for control-rate use only.
func FrequencyToNote(f Freq) Note {
	if f <= semitoneFreq[0] {
		return 0
	}
	if f >= semitoneFreq[128] {
		return NoteMax
	}
	// First index with semitoneFreq[i] > f.
	i := sort.Search(len(semitoneFreq), func(i int) bool { return semitoneFreq[i] > f })
	s := i - 1
	a := uint64(semitoneFreq[s])
	b := uint64(semitoneFreq[i])
	frac := ((uint64(f)-a)<<NoteFrac + (b-a)/2) / (b - a)
	return SaturateNote(int64(s)<<NoteFrac+int64(frac), NoteFrac)
}
