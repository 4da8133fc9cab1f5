package synth

import "math"

// ReferenceNote is the MIDI note tuned to ReferenceFrequency (A4).
const (
	ReferenceNote      = 69
	ReferenceFrequency = 440.0
)

// MidiNoteToFreq returns the equal-tempered frequency of note shifted by
// semitones and cents.
func MidiNoteToFreq(note, semitones, cents float64) float64 {
	return ReferenceFrequency * math.Exp2((note-ReferenceNote+semitones+cents/100)/12)
}
