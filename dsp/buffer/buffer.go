package buffer

import (
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Stereo holds one block of left and right samples. Hosts render into it
// and convert it for their output device or file.
type Stereo struct {
	left  []float64
	right []float64
}

// New returns a zero-filled block of the given number of frames.
func New(frames int) *Stereo {
	frames = max(frames, 0)

	return &Stereo{
		left:  make([]float64, frames),
		right: make([]float64, frames),
	}
}

// Left returns the left channel.
func (s *Stereo) Left() []float64 { return s.left }

// Right returns the right channel.
func (s *Stereo) Right() []float64 { return s.right }

// Frames returns the number of frames.
func (s *Stereo) Frames() int { return len(s.left) }

// Peak returns the largest absolute sample of either channel.
func (s *Stereo) Peak() float64 {
	return max(core.PeakAbs(s.left), core.PeakAbs(s.right))
}

// Scale multiplies both channels by gain.
func (s *Stereo) Scale(gain float64) {
	vecmath.ScaleBlock(s.left, s.left, gain)
	vecmath.ScaleBlock(s.right, s.right, gain)
}

// Interleave writes the block as LRLR float32 samples clipped to [-1, 1]
// and returns the number of frames written.
func (s *Stereo) Interleave(dst []float32) int {
	n := min(len(s.left), len(dst)/2)
	for i := range n {
		dst[2*i] = float32(core.Clamp(s.left[i], -1, 1))
		dst[2*i+1] = float32(core.Clamp(s.right[i], -1, 1))
	}

	return n
}

// IntBuffer fills dst with the block as interleaved integer PCM at
// bitDepth, clipped to full scale. dst.Data is reused when large enough.
func (s *Stereo) IntBuffer(dst *audio.IntBuffer, sampleRate, bitDepth int) {
	n := len(s.left)
	if cap(dst.Data) < 2*n {
		dst.Data = make([]int, 2*n)
	}

	dst.Data = dst.Data[:2*n]
	dst.Format = &audio.Format{NumChannels: 2, SampleRate: sampleRate}
	dst.SourceBitDepth = bitDepth

	full := float64(int(1)<<(bitDepth-1) - 1)
	for i := range n {
		dst.Data[2*i] = int(core.Clamp(s.left[i], -1, 1) * full)
		dst.Data[2*i+1] = int(core.Clamp(s.right[i], -1, 1) * full)
	}
}
