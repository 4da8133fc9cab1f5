// Package envelope provides the ADSR amplitude envelope.
//
// The envelope is stateless with respect to time: callers pass the time
// since note-on and the release time on every call. The only persisted
// state is the level at which the release ramp starts, so a note released
// mid-attack fades from where it was rather than from the sustain level.
package envelope
