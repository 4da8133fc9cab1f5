// Package effects holds the synth's insert effects.
//
// Drive is a self-modulating saturator: the input is multiplied by a
// delayed copy of itself through a comb filter before a tanh shaper, and
// ProcessMix crossfades between dry and driven signal. Build with the
// fastmath tag to use an approximate tanh.
//
// The reverb lives in the reverb subpackage.
package effects
