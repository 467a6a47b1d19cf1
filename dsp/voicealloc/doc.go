// Package voicealloc assigns note events to voices and mixes them into the
// output block.
//
// Mono drives a single voice with last-note priority; Poly keeps a fixed pool
// and steals when it runs out. Both are built for either numeric domain by
// the constructor matching the context, and both implement VoiceAllocator.
package voicealloc
