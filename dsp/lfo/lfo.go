package lfo

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

// PreviewLength is the number of points GenerateSamples renders by default.
const PreviewLength = 512

// MinPeriod is the shortest accepted period in seconds.
const MinPeriod = 1e-3

// LFO is a slow wavetable oscillator on the basic bank. It keeps its own
// sample counter, advanced once per audio sample by Tick, and caches the
// amplitude so any number of readers within one sample share one lookup.
type LFO struct {
	osc wavetable.Oscillator

	sampleRate      float64
	period          float64
	samplesPerCycle int
	counter         int

	amplitude float64
	cached    bool
}

// New returns an LFO with the given period in seconds.
func New(store *wavetable.Store, sampleRate, period float64) (*LFO, error) {
	if !core.IsFinite(period) || period <= 0 {
		return nil, fmt.Errorf("lfo period must be > 0: %f", period)
	}

	l := &LFO{sampleRate: sampleRate}
	if err := l.osc.Init(store, wavetable.BankBasic, 1/period, sampleRate); err != nil {
		return nil, fmt.Errorf("lfo: %w", err)
	}
	l.SetPeriod(period)
	return l, nil
}

// Tick advances the LFO by one sample, wrapping at the end of a cycle.
func (l *LFO) Tick() {
	l.counter++
	if l.counter >= l.samplesPerCycle {
		l.counter = 0
	}
	l.cached = false
}

// Amplitude returns the LFO value at the current sample.
func (l *LFO) Amplitude() float64 {
	if l.cached {
		return l.amplitude
	}
	l.amplitude = l.osc.Process(float64(l.counter) / l.sampleRate)
	l.cached = true
	return l.amplitude
}

// Period returns the period in seconds.
func (l *LFO) Period() float64 {
	return l.period
}

// SetPeriod updates the period in seconds. Values below MinPeriod are raised.
func (l *LFO) SetPeriod(period float64) {
	if !core.IsFinite(period) || period < MinPeriod {
		period = MinPeriod
	}
	l.period = period
	l.osc.SetFrequency(1 / period)

	l.samplesPerCycle = max(1, int(period*l.sampleRate))
	if l.counter >= l.samplesPerCycle {
		l.counter %= l.samplesPerCycle
	}
	l.cached = false
}

// Morph returns the wave index in [0, 1].
func (l *LFO) Morph() float64 {
	return l.osc.Morph()
}

// SetMorph selects the wave shape across the basic bank.
func (l *LFO) SetMorph(index float64) {
	l.osc.SetMorph(index)
	l.cached = false
}

// Position returns the current sample within the cycle.
func (l *LFO) Position() int {
	return l.counter
}

// GenerateSamples renders one full period into dst, independent of the
// playback position. It returns the number of points written.
func (l *LFO) GenerateSamples(dst []float64) int {
	n := len(dst)
	if n == 0 {
		return 0
	}

	step := l.period / float64(n)
	for i := range dst {
		dst[i] = l.osc.Process(float64(i) * step)
	}
	return n
}

// Reset rewinds the LFO to the start of its cycle.
func (l *LFO) Reset() {
	l.counter = 0
	l.cached = false
}
