// Package buffer provides the stereo block a host renders the synth into,
// with conversions to interleaved float32 for audio devices and to integer
// PCM for WAV files.
package buffer
