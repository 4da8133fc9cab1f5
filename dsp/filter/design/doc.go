// Package design provides RBJ cookbook biquad coefficient designers.
//
// The functions produce coefficients consumable by dsp/filter/biquad. Inputs
// are sanitized rather than rejected: frequencies are clamped into the audio
// band and Q to a small positive minimum, so a modulated filter always gets
// a finite, stable coefficient set.
package design
