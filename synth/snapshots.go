package synth

import (
	"github.com/cwbudde/algo-synth/dsp/lfo"
	"github.com/cwbudde/algo-synth/internal/snapshot"
)

// WaveformLength is the number of points in the decimated waveform snapshot.
const WaveformLength = 256

// Snapshots exposes the visualization side channels. Each accessor returns
// the most recently published frame; the slice stays valid until the next
// call to the same accessor. Use a single reading goroutine.
type Snapshots struct {
	envelope   *snapshot.Buffer[float64]
	waveform   *snapshot.Buffer[float64]
	lfoPreview *snapshot.Buffer[float64]
	spectrum   *snapshot.Buffer[float64]
}

func newSnapshots(spectrumBins int) *Snapshots {
	return &Snapshots{
		envelope:   snapshot.New[float64](4),
		waveform:   snapshot.New[float64](WaveformLength),
		lfoPreview: snapshot.New[float64](lfo.PreviewLength),
		spectrum:   snapshot.New[float64](spectrumBins),
	}
}

// Envelope returns attack, decay, sustain and release.
func (s *Snapshots) Envelope() []float64 { return s.envelope.Read() }

// Waveform returns the decimated output of the latest block.
func (s *Snapshots) Waveform() []float64 { return s.waveform.Read() }

// LFOPreview returns one period of the LFO shape.
func (s *Snapshots) LFOPreview() []float64 { return s.lfoPreview.Read() }

// Spectrum returns the latest magnitude bins.
func (s *Snapshots) Spectrum() []float64 { return s.spectrum.Read() }
