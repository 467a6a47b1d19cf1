package modmatrix

import "errors"

var (
	// ErrSource reports a source outside the source enumeration.
	ErrSource = errors.New("modmatrix: unknown source")
	// ErrDest reports a destination outside the destination enumeration.
	ErrDest = errors.New("modmatrix: unknown destination")
	// ErrSlotIndex reports a slot index outside [0, SlotsPerSource).
	ErrSlotIndex = errors.New("modmatrix: slot index out of range")
	// ErrWeightRange reports a weight outside [-1, 1] or not finite.
	ErrWeightRange = errors.New("modmatrix: weight must be in [-1, 1]")
	// ErrPrimaryOnly reports a primary-only destination written to a
	// secondary slot.
	ErrPrimaryOnly = errors.New("modmatrix: destination is only available in the first slot")
)
