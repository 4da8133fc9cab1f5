package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/delay"
	"github.com/cwbudde/algo-synth/dsp/filter/biquad"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
)

const (
	numStages   = 3
	numChannels = 2

	defaultCapacity  = 100000
	defaultDelay     = 6000
	defaultFeedback  = 0.3
	defaultFrequency = 1000.0
	defaultQ         = 2.0

	defaultSpread = 37

	maxFeedback  = 0.95
	minFrequency = 20.0
)

// stageOffsets decorrelate the three stages derived from one setting.
var stageOffsets = [numStages]struct {
	frequency float64
	delay     int
	feedback  float64
}{
	{frequency: 0, delay: 4000, feedback: 0},
	{frequency: -200, delay: 0, feedback: -0.2},
	{frequency: 200, delay: -1600, feedback: 0.2},
}

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	capacity int
	spread   int
}

// WithCapacity sets the length of each of the six delay lines in samples.
func WithCapacity(samples int) Option {
	return func(cfg *config) error {
		if samples <= 0 {
			return fmt.Errorf("reverb capacity must be > 0: %d", samples)
		}

		cfg.capacity = samples

		return nil
	}
}

// WithStereoSpread lengthens every right-channel delay line by samples.
// With a spread of 0 both outputs are identical for mono input.
func WithStereoSpread(samples int) Option {
	return func(cfg *config) error {
		if samples < 0 {
			return fmt.Errorf("reverb stereo spread must be >= 0: %d", samples)
		}

		cfg.spread = samples

		return nil
	}
}

// StageSettings describes the derived parameters of one stage.
type StageSettings struct {
	Delay     int
	Feedback  float64
	Frequency float64
	Q         float64
}

// Network is a stereo diffuser made of three (delay, allpass) stages per
// channel. Every stage output is half allpass-filtered delay and half plain
// delay. The two chains borrow each other's outer delay lines: the left
// chain's first stage runs on the right channel's third-stage line and its
// third stage on the right channel's first-stage line, and vice versa.
// Right-channel lines run a few samples longer than the left ones, so the
// crossed chains see different delays and the stereo image moves.
type Network struct {
	sampleRate float64
	spread     int

	lines     [numChannels][numStages]*delay.Comb
	allpasses [numChannels][numStages]biquad.Section
	settings  [numChannels][numStages]StageSettings
}

// New creates a reverb network with default settings.
func New(sampleRate float64, opts ...Option) (*Network, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	cfg := config{capacity: defaultCapacity, spread: defaultSpread}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	n := &Network{sampleRate: sampleRate, spread: cfg.spread}
	for ch := range n.lines {
		for st := range n.lines[ch] {
			comb, err := delay.NewComb(cfg.capacity, 1, 0)
			if err != nil {
				return nil, err
			}
			n.lines[ch][st] = comb
		}
	}

	n.Update(defaultDelay, defaultFeedback, defaultFrequency, defaultQ)
	return n, nil
}

// Capacity returns the delay line length in samples.
func (n *Network) Capacity() int {
	return n.lines[0][0].Capacity()
}

// Update re-derives all six stages from one (delay, feedback, frequency, q)
// setting. Delays are clamped to [1, capacity], feedback to [0, 0.95] and
// frequencies into the audio band.
func (n *Network) Update(delaySamples int, feedback, frequency, q float64) {
	capacity := n.Capacity()
	maxFreq := 0.45 * n.sampleRate
	if !core.IsFinite(feedback) {
		feedback = 0
	}
	if !core.IsFinite(frequency) {
		frequency = defaultFrequency
	}

	for st, off := range stageOffsets {
		base := StageSettings{
			Delay:     delaySamples + off.delay,
			Feedback:  core.Clamp(feedback+off.feedback, 0, maxFeedback),
			Frequency: core.Clamp(frequency+off.frequency, minFrequency, maxFreq),
			Q:         q,
		}
		coeffs := design.Allpass(base.Frequency, base.Q, n.sampleRate)

		for ch := range n.lines {
			s := base
			s.Delay += ch * n.spread
			s.Delay = min(max(s.Delay, 1), capacity)
			n.settings[ch][st] = s

			n.lines[ch][st].SetDelay(s.Delay)
			n.lines[ch][st].SetFeedback(s.Feedback)
			n.allpasses[ch][st].SetCoefficients(coeffs)
		}
	}
}

// Stage returns the derived settings of a channel's stage (both 0-based;
// channel 0 is left).
func (n *Network) Stage(channel, i int) StageSettings {
	return n.settings[channel][i]
}

// Process runs one mono sample through both chains.
func (n *Network) Process(x float64) (left, right float64) {
	const l, r = 0, 1

	left = n.stage(l, 0, n.lines[r][2], x)
	left = n.stage(l, 1, n.lines[l][1], left)
	left = n.stage(l, 2, n.lines[r][0], left)

	right = n.stage(r, 0, n.lines[l][2], x)
	right = n.stage(r, 1, n.lines[r][1], right)
	right = n.stage(r, 2, n.lines[l][0], right)

	return left, right
}

func (n *Network) stage(ch, st int, line *delay.Comb, in float64) float64 {
	d := line.Process(in)
	return 0.5*n.allpasses[ch][st].ProcessSample(d) + 0.5*d
}

// Reset clears all delay and filter memory.
func (n *Network) Reset() {
	for ch := range n.lines {
		for st := range n.lines[ch] {
			n.lines[ch][st].Reset()
			n.allpasses[ch][st].Reset()
		}
	}
}
