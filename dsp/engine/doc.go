// Package engine connects a control thread to the audio thread.
//
// Note and controller events travel through a bounded single-producer,
// single-consumer Queue. Patches and whole allocators are published through
// atomic pointers. The audio thread picks up all of them at the start of
// Process, so a block is always rendered by one allocator with one patch.
package engine
