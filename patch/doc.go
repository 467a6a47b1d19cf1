// Package patch reads and writes voice parameters as YAML documents.
//
// A document carries a semantic version; Decode accepts any version
// compatible with the current format. Fields left out keep the values of
// voice.DefaultParams, and modulation routes are applied slot by slot so the
// matrix rules are enforced on load.
//
//	version: 1.0.0
//	name: bass
//	osc1: {saw: 1}
//	filter: {mode: lowpass, cutoff: 60, resonance: 0.4}
//	matrix:
//	  - {source: lfo1, slot: 0, dest: filter_cutoff, weight: 0.2}
package patch
