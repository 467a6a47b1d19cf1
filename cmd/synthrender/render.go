package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/engine"
	"github.com/cwbudde/algo-synth/internal/analysis"
)

// noteEvent is a note transition at an absolute frame.
type noteEvent struct {
	frame    int
	on       bool
	note     float64
	velocity float64
}

func schedule(o options, sampleRate float64) []noteEvent {
	events := make([]noteEvent, 0, 2*len(o.notes))
	for i, n := range o.notes {
		start := float64(i) * o.stagger
		events = append(events,
			noteEvent{frame: int(start * sampleRate), on: true, note: n, velocity: o.velocity},
			noteEvent{frame: int((start + o.dur) * sampleRate), note: n},
		)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].frame < events[j].frame })
	return events
}

func send(eng *engine.Engine, ev noteEvent) bool {
	if ev.on {
		return eng.NoteOn(ev.note, ev.velocity)
	}
	return eng.NoteOff(ev.note)
}

// renderOffline runs the engine block by block, splitting blocks so every
// event lands on its exact frame.
func renderOffline(eng *engine.Engine, events []noteEvent, sampleRate, tail float64, block int, logger *slog.Logger) []float32 {
	total := int(tail * sampleRate)
	if len(events) > 0 {
		total += events[len(events)-1].frame
	}
	out := make([]float32, total)
	next := 0
	for pos := 0; pos < total; {
		for next < len(events) && events[next].frame <= pos {
			if !send(eng, events[next]) {
				logger.Warn("event queue full", "frame", pos)
			}
			next++
		}
		end := min(pos+block, total)
		if next < len(events) {
			end = min(end, events[next].frame)
		}
		eng.Process(out[pos:end])
		pos = end
	}
	return out
}

func peak(buf []float32) float64 {
	var p float64
	for _, x := range buf {
		p = max(p, math.Abs(float64(x)))
	}
	return p
}

func writeWAV(path string, buf []float32, sampleRate int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(buf)),
		SourceBitDepth: 16,
	}
	for i, x := range buf {
		ib.Data[i] = int(math.Round(math.Max(-1, math.Min(1, float64(x))) * 32767))
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return enc.Close()
}

func report(w io.Writer, buf []float32, sampleRate float64, partials int) error {
	sig := make([]float64, len(buf))
	for i, x := range buf {
		sig[i] = float64(x)
	}
	r, err := analysis.Analyze(sig, sampleRate, partials)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "fundamental  %.2f Hz\n", r.Fundamental)
	fmt.Fprintf(w, "thd          %.2f%%\n", 100*r.THD)
	for i, h := range r.Harmonics[:min(len(r.Harmonics), 8)] {
		fmt.Fprintf(w, "h%-11d %.1f dB\n", i+2, core.LinearToDB(max(h, 1e-12)))
	}
	for i, p := range r.Partials {
		fmt.Fprintf(w, "partial %-4d %.2f Hz\n", i+1, p)
	}
	return nil
}
