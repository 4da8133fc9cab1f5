package synth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const (
	defaultSeed           = 1
	defaultReverbCapacity = 100000
	numNotes              = 128
)

type config struct {
	processor      core.ProcessorConfig
	seed           int64
	logger         *slog.Logger
	maxVoices      int
	reverbCapacity int
	params         *Params
}

func defaultConfig() config {
	return config{
		processor:      core.DefaultProcessorConfig(),
		seed:           defaultSeed,
		reverbCapacity: defaultReverbCapacity,
	}
}

// Option configures a [Synth].
type Option func(*config) error

// WithSampleRate sets the output sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(sampleRate) || sampleRate <= 0 {
			return fmt.Errorf("synth sample rate must be > 0: %f", sampleRate)
		}

		core.WithSampleRate(sampleRate)(&cfg.processor)

		return nil
	}
}

// WithBlockSize sets the largest block size used for analysis and
// snapshot buffers. Longer blocks are analyzed in pieces.
func WithBlockSize(blockSize int) Option {
	return func(cfg *config) error {
		if blockSize <= 0 {
			return fmt.Errorf("synth block size must be > 0: %d", blockSize)
		}

		core.WithBlockSize(blockSize)(&cfg.processor)

		return nil
	}
}

// WithSeed seeds the humanization random source.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithLogger sets the logger for diagnostics. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return errors.New("synth logger must not be nil")
		}

		cfg.logger = logger

		return nil
	}
}

// WithMaxVoices caps polyphony. When the cap is reached a note-on steals
// the oldest released voice, or else the oldest voice. 0 means unbounded.
func WithMaxVoices(n int) Option {
	return func(cfg *config) error {
		if n < 0 || n > numNotes {
			return fmt.Errorf("synth max voices must be in [0,%d]: %d", numNotes, n)
		}

		cfg.maxVoices = n

		return nil
	}
}

// WithReverbCapacity sets the length of each reverb delay line in samples.
func WithReverbCapacity(samples int) Option {
	return func(cfg *config) error {
		if samples <= 0 {
			return fmt.Errorf("synth reverb capacity must be > 0: %d", samples)
		}

		cfg.reverbCapacity = samples

		return nil
	}
}

// WithParams makes the synth use p, so a host can keep writing to it.
func WithParams(p *Params) Option {
	return func(cfg *config) error {
		if p == nil {
			return errors.New("synth params must not be nil")
		}

		cfg.params = p

		return nil
	}
}
