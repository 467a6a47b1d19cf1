// Package bindings exposes devices and engines to foreign callers through
// integer handles.
//
// Process calls mirror a C calling convention: the caller owns every buffer,
// inputs are read starting at offset, outputs are written starting at the
// same offset, and the return value is the number of samples produced or a
// negative status. Arguments are fully validated before anything is
// written, so a failed call leaves the outputs untouched.
package bindings
