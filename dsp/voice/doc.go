// Package voice wires the synthesizer devices into a single playable voice.
//
// Voice is generic over the float sample type; VoiceFxP runs the same graph
// on the fixed-point devices. Both render from Params, converted once to
// ParamsFxP for the fixed domain, and share the Controls sent by the host.
package voice
