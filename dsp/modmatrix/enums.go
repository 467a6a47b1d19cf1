package modmatrix

import "fmt"

// Src identifies a modulation source.
type Src uint8

const (
	SrcEnv1 Src = iota
	SrcEnv2
	SrcLFO1
	SrcLFO2
	SrcVelocity
	SrcModWheel
	SrcAftertouch

	// NumSrc is the number of sources.
	NumSrc
)

var srcNames = [NumSrc]string{
	SrcEnv1:       "env1",
	SrcEnv2:       "env2",
	SrcLFO1:       "lfo1",
	SrcLFO2:       "lfo2",
	SrcVelocity:   "velocity",
	SrcModWheel:   "modwheel",
	SrcAftertouch: "aftertouch",
}

func (s Src) String() string {
	if s < NumSrc {
		return srcNames[s]
	}
	return fmt.Sprintf("Src(%d)", uint8(s))
}

// Valid reports whether s is a known source.
func (s Src) Valid() bool { return s < NumSrc }

// ParseSrc returns the source named s.
func ParseSrc(s string) (Src, error) {
	for i, name := range srcNames {
		if name == s {
			return Src(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSource, s)
}

// Dest identifies a modulation destination.
type Dest uint8

const (
	// DestNone disables a slot.
	DestNone Dest = iota
	DestOsc1Pitch
	DestOsc1Shape
	DestOsc1Level
	DestOsc2Pitch
	DestOsc2Shape
	DestOsc2Level
	DestRingLevel
	DestFilterCutoff
	DestFilterResonance
	DestAmpGain
	DestLFO1Rate
	DestLFO2Rate

	// NumDest is the number of destinations including DestNone.
	NumDest
)

type destInfo struct {
	name        string
	scale       float64
	mult        bool
	primaryOnly bool
	controlRate bool
}

var dests = [NumDest]destInfo{
	DestNone:            {name: "none"},
	DestOsc1Pitch:       {name: "osc1_pitch", scale: 24},
	DestOsc1Shape:       {name: "osc1_shape", scale: 1},
	DestOsc1Level:       {name: "osc1_level", scale: 1},
	DestOsc2Pitch:       {name: "osc2_pitch", scale: 24},
	DestOsc2Shape:       {name: "osc2_shape", scale: 1},
	DestOsc2Level:       {name: "osc2_level", scale: 1},
	DestRingLevel:       {name: "ring_level", scale: 1},
	DestFilterCutoff:    {name: "filter_cutoff", scale: 64},
	DestFilterResonance: {name: "filter_resonance", scale: 1},
	DestAmpGain:         {name: "amp_gain", scale: 1, mult: true},
	DestLFO1Rate:        {name: "lfo1_rate", scale: 16, primaryOnly: true, controlRate: true},
	DestLFO2Rate:        {name: "lfo2_rate", scale: 16, primaryOnly: true, controlRate: true},
}

func (d Dest) String() string {
	if d < NumDest {
		return dests[d].name
	}
	return fmt.Sprintf("Dest(%d)", uint8(d))
}

// Valid reports whether d is a known destination.
func (d Dest) Valid() bool { return d < NumDest }

// Secondary reports whether d may be selected in slots after the first.
func (d Dest) Secondary() bool { return d < NumDest && !dests[d].primaryOnly }

// Scale is the parameter change produced by a contribution of 1: semitones
// for pitch and cutoff, Hz for LFO rates, and unit amounts otherwise.
func (d Dest) Scale() float64 {
	if d < NumDest {
		return dests[d].scale
	}
	return 0
}

// Multiplicative reports whether the contribution c scales the base value by
// (1 + c) instead of being added to it.
func (d Dest) Multiplicative() bool { return d < NumDest && dests[d].mult }

// ControlRate reports whether d is applied once per block rather than per
// sample.
func (d Dest) ControlRate() bool { return d < NumDest && dests[d].controlRate }

// ParseDest returns the destination named s.
func ParseDest(s string) (Dest, error) {
	for i, info := range dests {
		if info.name == s {
			return Dest(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrDest, s)
}

// Sources enumerates every modulation source.
func Sources() []Src {
	out := make([]Src, NumSrc)
	for i := range out {
		out[i] = Src(i)
	}
	return out
}

// Destinations enumerates the destinations. With secondary set, only those
// allowed in slots after the first are returned.
func Destinations(secondary bool) []Dest {
	out := make([]Dest, 0, NumDest)
	for d := DestNone; d < NumDest; d++ {
		if secondary && !d.Secondary() {
			continue
		}
		out = append(out, d)
	}
	return out
}
