package main

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cwbudde/algo-synth/dsp/buffer"
)

// float32Reader streams a rendering as little-endian interleaved float32.
type float32Reader struct {
	samples []float32
	pos     int
}

func newFloat32Reader(out *buffer.Stereo) *float32Reader {
	samples := make([]float32, 2*out.Frames())
	out.Interleave(samples)

	return &float32Reader{samples: samples}
}

func (r *float32Reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}

	n := 0
	for n+4 <= len(p) && r.pos < len(r.samples) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.samples[r.pos]))
		n += 4
		r.pos++
	}

	return n, nil
}
