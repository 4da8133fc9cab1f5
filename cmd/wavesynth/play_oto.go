//go:build !headless

package main

import (
	"time"

	"github.com/cwbudde/algo-synth/dsp/buffer"
	"github.com/ebitengine/oto/v3"
)

// playStereo plays out on the default device and blocks until it finishes.
func playStereo(out *buffer.Stereo, sampleRate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(newFloat32Reader(out))
	player.Play()

	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}

	return player.Close()
}
