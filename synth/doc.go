// Package synth is a polyphonic morphing-wavetable synthesizer.
//
// A [Synth] owns one [Voice] slot per MIDI key. Each voice mixes two
// wavetable oscillators whose morph position follows its own envelope and
// shapes the mix with an ADSR amplitude envelope. The summed voices run
// through a resonant lowpass, a drive stage and a cross-fed stereo reverb.
// A shared LFO can push the oscillator balance, filter cutoff, drive amount
// and reverb delay.
//
// Parameters live in [Params]. Hosts may Set or Jump targets from any
// goroutine; the synth pulls every parameter one step per sample.
//
// Rendering is synchronous and allocation free. A host typically calls
// [Synth.ProcessBlock] from its audio callback with the note events of the
// block, and a display goroutine reads [Snapshots] for the envelope shape,
// the output waveform, the LFO shape and the spectrum.
package synth
