package effects

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/delay"
)

const (
	defaultDriveDelay = 200
	maxDriveDelay     = 1 << 16
)

// DriveOption mutates construction-time parameters.
type DriveOption func(*driveConfig) error

type driveConfig struct {
	delay int
}

func defaultDriveConfig() driveConfig {
	return driveConfig{delay: defaultDriveDelay}
}

// WithDriveDelay sets the delay in samples between the signal and its
// modulating copy, in [1, 65536].
func WithDriveDelay(samples int) DriveOption {
	return func(cfg *driveConfig) error {
		if samples < 1 || samples > maxDriveDelay {
			return fmt.Errorf("drive delay must be in [1, %d]: %d", maxDriveDelay, samples)
		}

		cfg.delay = samples

		return nil
	}
}

// Drive multiplies the signal by a short-delayed copy of itself and
// saturates the product with tanh. The result is a level-dependent, slightly
// comb-coloured distortion that is silent for silent input.
type Drive struct {
	comb *delay.Comb
}

// NewDrive creates a Drive stage.
func NewDrive(opts ...DriveOption) (*Drive, error) {
	cfg := defaultDriveConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	comb, err := delay.NewComb(cfg.delay, cfg.delay, 0)
	if err != nil {
		return nil, err
	}

	return &Drive{comb: comb}, nil
}

// Delay returns the internal delay length in samples.
func (d *Drive) Delay() int {
	return d.comb.Delay()
}

// ProcessSample returns tanh(x * x[n-delay]).
func (d *Drive) ProcessSample(x float64) float64 {
	return mathTanh(x * d.comb.Process(x))
}

// ProcessMix returns the dry signal cross-faded with the driven signal by
// amount, clamped to [0, 1]. The delay advances even when amount is 0 so the
// stage stays in step with its input.
func (d *Drive) ProcessMix(x, amount float64) float64 {
	wet := d.ProcessSample(x)
	return core.Lerp(x, wet, core.Clamp(amount, 0, 1))
}

// ProcessInPlace drives buf in place.
func (d *Drive) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = d.ProcessSample(x)
	}
}

// Reset clears the delay memory.
func (d *Drive) Reset() {
	d.comb.Reset()
}
