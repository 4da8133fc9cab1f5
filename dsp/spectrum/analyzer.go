package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultWindowSize is the analysis frame length in samples.
	DefaultWindowSize = 64
	// DefaultFFTSize leaves room for zero padding past the analysis frame.
	DefaultFFTSize = 128
	// DefaultHop is the number of input samples between two analyses.
	DefaultHop = 32
)

// ErrInvalidSize is returned for inconsistent window, FFT or hop sizes.
var ErrInvalidSize = errors.New("spectrum: invalid analyzer size")

type analyzerConfig struct {
	windowSize int
	fftSize    int
	hop        int
	window     window.Type
}

func defaultAnalyzerConfig() analyzerConfig {
	return analyzerConfig{
		windowSize: DefaultWindowSize,
		fftSize:    DefaultFFTSize,
		hop:        DefaultHop,
		window:     window.TypeHann,
	}
}

// Option configures an [Analyzer].
type Option func(*analyzerConfig) error

// WithWindowSize sets the analysis frame length. It is also the number of
// bins reported by [Analyzer.Bins].
func WithWindowSize(n int) Option {
	return func(cfg *analyzerConfig) error {
		if n < 2 {
			return fmt.Errorf("spectrum window size must be >= 2: %d", n)
		}

		cfg.windowSize = n

		return nil
	}
}

// WithFFTSize sets the transform length. Frames are zero-padded to it.
func WithFFTSize(n int) Option {
	return func(cfg *analyzerConfig) error {
		if n < 2 {
			return fmt.Errorf("spectrum fft size must be >= 2: %d", n)
		}

		cfg.fftSize = n

		return nil
	}
}

// WithHop sets the number of samples between consecutive analyses.
func WithHop(n int) Option {
	return func(cfg *analyzerConfig) error {
		if n < 1 {
			return fmt.Errorf("spectrum hop must be > 0: %d", n)
		}

		cfg.hop = n

		return nil
	}
}

// WithWindow selects the analysis window. The window is generated periodic.
func WithWindow(t window.Type) Option {
	return func(cfg *analyzerConfig) error {
		cfg.window = t
		return nil
	}
}

// Analyzer is a short-time Fourier magnitude analyzer.
//
// Input is pushed block by block. Every hop samples the most recent frame is
// windowed, zero-padded, transformed and the magnitudes of the first
// WindowSize bins, scaled by 1/FFTSize, replace the previous result.
// Nothing is allocated after construction.
type Analyzer struct {
	windowSize int
	fftSize    int
	hop        int

	plan  *algofft.Plan[complex128]
	coeff []float64

	ring     []float64
	pos      int
	filled   int
	sinceHop int

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	bins  []float64
	scale float64
}

// NewAnalyzer creates an analyzer with a 64-sample Hann frame, a 128-point
// FFT and a hop of 32 samples unless overridden by options.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	cfg := defaultAnalyzerConfig()

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.fftSize < cfg.windowSize {
		return nil, fmt.Errorf("%w: fft size %d < window size %d", ErrInvalidSize, cfg.fftSize, cfg.windowSize)
	}

	if cfg.windowSize > cfg.fftSize/2+1 {
		return nil, fmt.Errorf("%w: window size %d exceeds %d usable bins", ErrInvalidSize, cfg.windowSize, cfg.fftSize/2+1)
	}

	if cfg.hop > cfg.windowSize {
		return nil, fmt.Errorf("%w: hop %d > window size %d", ErrInvalidSize, cfg.hop, cfg.windowSize)
	}

	coeff := window.Generate(cfg.window, cfg.windowSize, window.WithPeriodic())

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum fft plan: %w", err)
	}

	return &Analyzer{
		windowSize: cfg.windowSize,
		fftSize:    cfg.fftSize,
		hop:        cfg.hop,
		plan:       plan,
		coeff:      coeff,
		ring:       make([]float64, cfg.windowSize),
		frame:      make([]float64, cfg.windowSize),
		in:         make([]complex128, cfg.fftSize),
		out:        make([]complex128, cfg.fftSize),
		re:         make([]float64, cfg.windowSize),
		im:         make([]float64, cfg.windowSize),
		bins:       make([]float64, cfg.windowSize),
		scale:      1 / float64(cfg.fftSize),
	}, nil
}

// WindowSize returns the analysis frame length.
func (a *Analyzer) WindowSize() int { return a.windowSize }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Hop returns the analysis hop in samples.
func (a *Analyzer) Hop() int { return a.hop }

// Bins returns the latest magnitudes. The slice is owned by the analyzer and
// overwritten by the next analysis.
func (a *Analyzer) Bins() []float64 { return a.bins }

// BinFrequency returns the center frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int, sampleRate float64) float64 {
	return BinFrequency(k, a.fftSize, sampleRate)
}

// Process pushes block into the analyzer and reports whether at least one
// new analysis was produced. No analysis runs before a full frame has been
// collected.
func (a *Analyzer) Process(block []float64) bool {
	updated := false

	for _, x := range block {
		a.ring[a.pos] = x

		a.pos++
		if a.pos == a.windowSize {
			a.pos = 0
		}

		if a.filled < a.windowSize {
			a.filled++
		}

		a.sinceHop++
		if a.sinceHop < a.hop || a.filled < a.windowSize {
			continue
		}

		a.sinceHop = 0
		if a.analyze() {
			updated = true
		}
	}

	return updated
}

func (a *Analyzer) analyze() bool {
	// Oldest sample sits at the write position.
	n := copy(a.frame, a.ring[a.pos:])
	copy(a.frame[n:], a.ring[:a.pos])

	if err := window.ApplyCoefficientsInPlace(a.frame, a.coeff); err != nil {
		return false
	}

	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}

	for i := a.windowSize; i < a.fftSize; i++ {
		a.in[i] = 0
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return false
	}

	for k := range a.bins {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	MagnitudeFromParts(a.bins, a.re, a.im)
	vecmath.ScaleBlock(a.bins, a.bins, a.scale)

	return true
}

// Reset clears the collected input and the reported bins.
func (a *Analyzer) Reset() {
	clear(a.ring)
	clear(a.bins)
	a.pos = 0
	a.filled = 0
	a.sinceHop = 0
}
