//go:build headless

package main

import (
	"errors"

	"github.com/cwbudde/algo-synth/dsp/buffer"
)

func playStereo(_ *buffer.Stereo, _ int) error {
	return errors.New("playback is not available in headless builds")
}
