// Command synthrender plays notes through the synthesizer engine.
//
// Usage:
//
//	synthrender [flags]
//
// By default the notes are rendered offline; -out writes them to a 16-bit
// WAV file and -analyze prints their spectrum. With -play the engine runs
// live on the default audio device, and -watch reloads -patch on change.
//
// Examples:
//
//	synthrender -notes 48,55,60,64 -dur 2 -out chord.wav
//	synthrender -fixed -rate 48000 -voices 1 -notes 45 -analyze
//	synthrender -patch bass.yaml -watch -play -notes 36,43 -stagger 0.5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
	"github.com/cwbudde/algo-synth/dsp/voice"
	"github.com/cwbudde/algo-synth/dsp/voicealloc"
	"github.com/cwbudde/algo-synth/patch"
)

type options struct {
	rate      float64
	fixed     bool
	voices    int
	block     int
	patchPath string
	notes     []float64
	velocity  float64
	gainDB    float64
	dur       float64
	tail      float64
	stagger   float64
	out       string
	play      bool
	watch     bool
	analyze   bool
	partials  int
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("synthrender failed", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var (
		o     options
		notes string
	)
	fs := flag.NewFlagSet("synthrender", flag.ContinueOnError)
	fs.Float64Var(&o.rate, "rate", 44100, "sample rate in Hz")
	fs.BoolVar(&o.fixed, "fixed", false, "use the fixed-point engine")
	fs.IntVar(&o.voices, "voices", 8, "polyphony; 1 selects mono")
	fs.IntVar(&o.block, "block", 512, "engine block size in frames")
	fs.StringVar(&o.patchPath, "patch", "", "YAML patch file")
	fs.StringVar(&notes, "notes", "60", "comma-separated MIDI notes")
	fs.Float64Var(&o.velocity, "velocity", 0.8, "note velocity in [0, 1]")
	fs.Float64Var(&o.gainDB, "gain", 0, "level change in dB applied to the patch gain")
	fs.Float64Var(&o.dur, "dur", 1, "seconds each note is held")
	fs.Float64Var(&o.tail, "tail", 0.5, "seconds rendered after the last release")
	fs.Float64Var(&o.stagger, "stagger", 0, "seconds between note starts")
	fs.StringVar(&o.out, "out", "", "write a WAV file")
	fs.BoolVar(&o.play, "play", false, "play live on the default audio device")
	fs.BoolVar(&o.watch, "watch", false, "reload -patch when it changes (with -play)")
	fs.BoolVar(&o.analyze, "analyze", false, "print the spectrum of the rendered audio")
	fs.IntVar(&o.partials, "partials", 5, "number of partials printed by -analyze")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	var err error
	if o.notes, err = parseNotes(notes); err != nil {
		return o, err
	}
	switch {
	case math.IsNaN(o.gainDB) || math.IsInf(o.gainDB, 0):
		return o, fmt.Errorf("-gain must be finite: %g", o.gainDB)
	case o.dur <= 0:
		return o, fmt.Errorf("-dur must be positive: %g", o.dur)
	case o.tail < 0 || o.stagger < 0:
		return o, errors.New("-tail and -stagger must not be negative")
	case o.watch && o.patchPath == "":
		return o, errors.New("-watch needs -patch")
	case o.play && (o.out != "" || o.analyze):
		return o, errors.New("-play cannot be combined with -out or -analyze")
	}
	return o, nil
}

func parseNotes(s string) ([]float64, error) {
	var notes []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || n < 0 || n > 127 {
			return nil, fmt.Errorf("invalid note %q", f)
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return nil, errors.New("no notes given")
	}
	return notes, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *slog.Logger) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg := core.ApplyRenderOptions(
		core.WithSampleRate(o.rate),
		core.WithVoices(o.voices),
		core.WithBlockSize(o.block),
		core.WithFixedPoint(o.fixed),
	)
	alloc, err := voicealloc.New(cfg)
	if err != nil {
		return err
	}
	eng, err := engine.New(alloc, engine.WithBlockSize(cfg.BlockSize), engine.WithQueueSize(4*len(o.notes)+16))
	if err != nil {
		return err
	}
	p := voice.DefaultParams()
	if o.patchPath != "" {
		if p, err = patch.Load(o.patchPath); err != nil {
			return err
		}
		logger.Info("patch loaded", "path", o.patchPath)
	}
	if err := eng.SetParams(trim(p, o.gainDB)); err != nil {
		return err
	}
	logger.Info("engine ready",
		"rate", cfg.SampleRate, "voices", cfg.Voices, "block", cfg.BlockSize, "fixed", cfg.FixedPoint)

	events := schedule(o, cfg.SampleRate)
	if o.play {
		if o.watch {
			go watchPatch(ctx, o.patchPath, o.gainDB, eng, logger)
		}
		return play(ctx, eng, events, cfg.SampleRate, o.tail, logger)
	}

	buf := renderOffline(eng, events, cfg.SampleRate, o.tail, cfg.BlockSize, logger)
	logger.Info("rendered", "frames", len(buf), "peak_dbfs", core.LinearToDB(peak(buf)))
	if o.out != "" {
		if err := writeWAV(o.out, buf, int(cfg.SampleRate)); err != nil {
			return err
		}
		logger.Info("wrote", "path", o.out)
	}
	if o.analyze {
		return report(stdout, buf, cfg.SampleRate, o.partials)
	}
	return nil
}

// trim scales the patch output level by db decibels.
func trim(p *voice.Params, db float64) *voice.Params {
	p.Gain *= core.DBToLinear(db)
	return p
}

func watchPatch(ctx context.Context, path string, gainDB float64, eng *engine.Engine, logger *slog.Logger) {
	err := patch.Watch(ctx, path, func(p *voice.Params, err error) {
		if err != nil {
			logger.Warn("patch reload failed", "err", err)
			return
		}
		if err := eng.SetParams(trim(p, gainDB)); err != nil {
			logger.Warn("patch rejected", "err", err)
			return
		}
		logger.Info("patch reloaded", "path", path)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("patch watch stopped", "err", err)
	}
}
