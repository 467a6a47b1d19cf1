package patch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-synth/dsp/device"
	"github.com/cwbudde/algo-synth/dsp/modmatrix"
	"github.com/cwbudde/algo-synth/dsp/voice"
)

// FormatVersion is written by Encode.
const FormatVersion = "1.0.0"

// compatible is the range of document versions Decode accepts.
const compatible = "^1.0"

// ErrVersion reports a missing or incompatible document version.
var ErrVersion = errors.New("patch: incompatible version")

// Osc is the YAML form of voice.OscParams.
type Osc struct {
	Coarse   float64 `yaml:"coarse"`
	Fine     float64 `yaml:"fine"`
	Shape    float64 `yaml:"shape"`
	Sine     float64 `yaml:"sine"`
	Triangle float64 `yaml:"triangle"`
	Square   float64 `yaml:"square"`
	Saw      float64 `yaml:"saw"`
}

// Ring is the YAML form of voice.RingModParams.
type Ring struct {
	Osc1 float64 `yaml:"osc1"`
	Osc2 float64 `yaml:"osc2"`
	Ring float64 `yaml:"ring"`
}

// Filter is the YAML form of voice.FilterParams.
type Filter struct {
	Mode      string  `yaml:"mode"`
	Cutoff    float64 `yaml:"cutoff"`
	Resonance float64 `yaml:"resonance"`
	EnvMod    float64 `yaml:"env_mod"`
	KeyTrack  float64 `yaml:"key_track"`
}

// LFO is the YAML form of voice.LFOParams.
type LFO struct {
	Wave  string  `yaml:"wave"`
	Rate  float64 `yaml:"rate"`
	Depth float64 `yaml:"depth"`
}

// Env is the YAML form of voice.EnvParams.
type Env struct {
	Attack  float64 `yaml:"attack"`
	Decay   float64 `yaml:"decay"`
	Sustain float64 `yaml:"sustain"`
	Release float64 `yaml:"release"`
}

// Route is one modulation matrix slot.
type Route struct {
	Source string  `yaml:"source"`
	Slot   int     `yaml:"slot"`
	Dest   string  `yaml:"dest"`
	Weight float64 `yaml:"weight"`
}

// File is a patch document.
type File struct {
	Version string  `yaml:"version"`
	Name    string  `yaml:"name,omitempty"`
	Osc1    Osc     `yaml:"osc1"`
	Osc2    Osc     `yaml:"osc2"`
	Sync    bool    `yaml:"sync"`
	Ring    Ring    `yaml:"ring"`
	Filter  Filter  `yaml:"filter"`
	LFO1    LFO     `yaml:"lfo1"`
	LFO2    LFO     `yaml:"lfo2"`
	EnvVCF  Env     `yaml:"env_vcf"`
	EnvVCA  Env     `yaml:"env_vca"`
	Env1    Env     `yaml:"env1"`
	Env2    Env     `yaml:"env2"`
	Glide   float64 `yaml:"glide"`
	Gain    float64 `yaml:"gain"`
	Matrix  []Route `yaml:"matrix,omitempty"`
}

// FromParams converts p to its document form.
func FromParams(p *voice.Params) *File {
	f := &File{
		Version: FormatVersion,
		Osc1:    Osc(p.Osc1),
		Osc2:    Osc(p.Osc2),
		Sync:    p.Sync,
		Ring:    Ring(p.Ring),
		Filter: Filter{
			Mode:      p.Filter.Mode.String(),
			Cutoff:    p.Filter.Cutoff,
			Resonance: p.Filter.Resonance,
			EnvMod:    p.Filter.EnvMod,
			KeyTrack:  p.Filter.KeyTrack,
		},
		LFO1:   LFO{Wave: p.LFO1.Wave.String(), Rate: p.LFO1.Rate, Depth: p.LFO1.Depth},
		LFO2:   LFO{Wave: p.LFO2.Wave.String(), Rate: p.LFO2.Rate, Depth: p.LFO2.Depth},
		EnvVCF: Env(p.EnvVCF),
		EnvVCA: Env(p.EnvVCA),
		Env1:   Env(p.Env1),
		Env2:   Env(p.Env2),
		Glide:  p.Glide,
		Gain:   p.Gain,
	}
	for _, src := range modmatrix.Sources() {
		for i := range modmatrix.SlotsPerSource {
			sl, err := p.Matrix.Slot(src, i)
			if err != nil || sl.Dest == modmatrix.DestNone {
				continue
			}
			f.Matrix = append(f.Matrix, Route{
				Source: src.String(),
				Slot:   i,
				Dest:   sl.Dest.String(),
				Weight: sl.Weight,
			})
		}
	}
	return f
}

// Params converts f to validated voice parameters.
func (f *File) Params() (*voice.Params, error) {
	mode, err := device.ParseFilterMode(f.Filter.Mode)
	if err != nil {
		return nil, fmt.Errorf("patch: filter: %w", err)
	}
	w1, err := device.ParseLFOWave(f.LFO1.Wave)
	if err != nil {
		return nil, fmt.Errorf("patch: lfo1: %w", err)
	}
	w2, err := device.ParseLFOWave(f.LFO2.Wave)
	if err != nil {
		return nil, fmt.Errorf("patch: lfo2: %w", err)
	}
	p := &voice.Params{
		Osc1: voice.OscParams(f.Osc1),
		Osc2: voice.OscParams(f.Osc2),
		Sync: f.Sync,
		Ring: voice.RingModParams(f.Ring),
		Filter: voice.FilterParams{
			Mode:      mode,
			Cutoff:    f.Filter.Cutoff,
			Resonance: f.Filter.Resonance,
			EnvMod:    f.Filter.EnvMod,
			KeyTrack:  f.Filter.KeyTrack,
		},
		LFO1:   voice.LFOParams{Wave: w1, Rate: f.LFO1.Rate, Depth: f.LFO1.Depth},
		LFO2:   voice.LFOParams{Wave: w2, Rate: f.LFO2.Rate, Depth: f.LFO2.Depth},
		EnvVCF: voice.EnvParams(f.EnvVCF),
		EnvVCA: voice.EnvParams(f.EnvVCA),
		Env1:   voice.EnvParams(f.Env1),
		Env2:   voice.EnvParams(f.Env2),
		Glide:  f.Glide,
		Gain:   f.Gain,
	}
	for i, r := range f.Matrix {
		src, err := modmatrix.ParseSrc(r.Source)
		if err != nil {
			return nil, fmt.Errorf("patch: matrix[%d]: %w", i, err)
		}
		dest, err := modmatrix.ParseDest(r.Dest)
		if err != nil {
			return nil, fmt.Errorf("patch: matrix[%d]: %w", i, err)
		}
		if err := p.Matrix.SetSlot(src, r.Slot, dest, r.Weight); err != nil {
			return nil, fmt.Errorf("patch: matrix[%d]: %w", i, err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	return p, nil
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing version", ErrVersion)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrVersion, v, err)
	}
	c, err := semver.NewConstraint(compatible)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrVersion, ver, compatible)
	}
	return nil
}

// Decode reads one document from r. Unknown keys are errors.
func Decode(r io.Reader) (*File, error) {
	f := FromParams(voice.DefaultParams())
	f.Version = ""
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("patch: decode: %w", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	return f, nil
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("patch: encode: %w", err)
	}
	return enc.Close()
}

// Load reads and converts the patch at path.
func Load(path string) (*voice.Params, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	defer fh.Close()
	f, err := Decode(fh)
	if err != nil {
		return nil, err
	}
	return f.Params()
}
