package main

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-synth/dsp/engine"
)

// streamer adapts the engine to oto's pull model. Read runs on oto's audio
// goroutine and is the engine's only consumer.
type streamer struct {
	eng *engine.Engine
	buf []float32
}

func (s *streamer) Read(p []byte) (int, error) {
	frames := len(p) / 4
	for done := 0; done < frames; {
		n := min(frames-done, len(s.buf))
		chunk := s.buf[:n]
		s.eng.Process(chunk)
		for i, x := range chunk {
			binary.LittleEndian.PutUint32(p[4*(done+i):], math.Float32bits(x))
		}
		done += n
	}
	return frames * 4, nil
}

func play(ctx context.Context, eng *engine.Engine, events []noteEvent, sampleRate, tail float64, logger *slog.Logger) error {
	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := octx.NewPlayer(&streamer{eng: eng, buf: make([]float32, eng.BlockSize())})
	defer player.Close()
	player.Play()
	logger.Info("playing", "events", len(events))

	start := time.Now()
	at := func(frame int) time.Time {
		return start.Add(time.Duration(float64(frame) / sampleRate * float64(time.Second)))
	}
	for _, ev := range events {
		if !sleepUntil(ctx, at(ev.frame)) {
			return ctx.Err()
		}
		if !send(eng, ev) {
			logger.Warn("event queue full", "note", ev.note)
		}
	}
	end := start
	if len(events) > 0 {
		end = at(events[len(events)-1].frame)
	}
	if !sleepUntil(ctx, end.Add(time.Duration(tail*float64(time.Second)))) {
		return ctx.Err()
	}
	return nil
}

func sleepUntil(ctx context.Context, t time.Time) bool {
	timer := time.NewTimer(time.Until(t))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
