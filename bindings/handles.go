package bindings

import (
	"sync"
	"sync/atomic"
)

// Handle identifies a live instance. The zero Handle is never issued.
type Handle uint64

// Status codes returned in place of a sample count.
const (
	StatusNull    int32 = -1 // nil buffer or zero handle
	StatusInvalid int32 = -2 // unknown handle, wrong kind or bad range
)

var (
	instances sync.Map // Handle -> any
	nextID    atomic.Uint64
)

func register(v any) Handle {
	h := Handle(nextID.Add(1))
	instances.Store(h, v)
	return h
}

// Free releases h. It returns 0, StatusNull for the zero handle or
// StatusInvalid when h is unknown.
func Free(h Handle) int32 {
	if h == 0 {
		return StatusNull
	}
	if _, ok := instances.LoadAndDelete(h); !ok {
		return StatusInvalid
	}
	return 0
}

// Live returns the number of unreleased handles.
func Live() int {
	n := 0
	instances.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func lookup[T any](h Handle) (T, int32) {
	var zero T
	if h == 0 {
		return zero, StatusNull
	}
	v, ok := instances.Load(h)
	if !ok {
		return zero, StatusInvalid
	}
	t, ok := v.(T)
	if !ok {
		return zero, StatusInvalid
	}
	return t, 0
}

// window validates that every buffer covers [offset, offset+samples) and
// returns the clamped sample count.
func window(samples, offset int, lens ...int) (int, int32) {
	if samples < 0 || offset < 0 {
		return 0, StatusInvalid
	}
	end := offset + samples
	for _, l := range lens {
		if l < end {
			return 0, StatusInvalid
		}
	}
	return samples, 0
}

func anyNil[T any](bufs ...[]T) bool {
	for _, b := range bufs {
		if b == nil {
			return true
		}
	}
	return false
}
