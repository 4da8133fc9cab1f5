// Package reverb provides the stereo allpass/delay diffuser used as the
// synth's reverb.
package reverb
