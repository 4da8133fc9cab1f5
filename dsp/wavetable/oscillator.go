package wavetable

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// morphSnap is how close a morph segment position must be to an integer to
// count as sitting exactly on a table.
const morphSnap = 1e-9

// Oscillator reads one bank of a Store by phase accumulation and crossfades
// between two adjacent tables selected by a continuous morph position.
//
// Samples are point sampled: the table index is truncated, not interpolated.
// The zero value is not usable; call Init or use NewOscillator.
type Oscillator struct {
	tables [][]float64

	sampleRate      float64
	frequency       float64
	timePerSample   float64
	samplesPerCycle float64
	scale           float64

	morph float64
	lo    int
	hi    int
	frac  float64
}

// NewOscillator returns an oscillator reading bank from store.
func NewOscillator(store *Store, bank BankID, frequency, sampleRate float64) (*Oscillator, error) {
	o := &Oscillator{}
	if err := o.Init(store, bank, frequency, sampleRate); err != nil {
		return nil, err
	}
	return o, nil
}

// Init (re)configures o in place. It reports unknown or missing banks and
// invalid sample rates; it does not allocate.
func (o *Oscillator) Init(store *Store, bank BankID, frequency, sampleRate float64) error {
	if store == nil {
		return fmt.Errorf("%w: %s: nil store", ErrMissingBank, bank)
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("oscillator sample rate must be > 0: %f", sampleRate)
	}

	tables, err := store.Bank(bank)
	if err != nil {
		return err
	}

	o.tables = tables
	o.sampleRate = sampleRate
	o.timePerSample = 1 / sampleRate
	o.SetFrequency(frequency)
	o.SetMorph(0)
	return nil
}

// SampleRate returns the configured sample rate.
func (o *Oscillator) SampleRate() float64 {
	return o.sampleRate
}

// Frequency returns the effective frequency after clamping.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SamplesPerCycle returns the cycle length in samples.
func (o *Oscillator) SamplesPerCycle() float64 {
	return o.samplesPerCycle
}

// SetFrequency updates the playback frequency. Values outside
// [core.MinFrequency, Nyquist] are clamped.
func (o *Oscillator) SetFrequency(frequency float64) {
	o.frequency = core.SanitizeFrequency(frequency, o.sampleRate/2)
	o.samplesPerCycle = o.sampleRate / o.frequency
	o.scale = TableLength / o.samplesPerCycle
}

// Morph returns the current morph position.
func (o *Oscillator) Morph() float64 {
	return o.morph
}

// SetMorph selects the crossfade position in [0, 1] across the bank.
func (o *Oscillator) SetMorph(position float64) {
	if !core.IsFinite(position) {
		position = 0
	}
	position = core.Clamp(position, 0, 1)
	o.morph = position

	n := len(o.tables)
	switch {
	case n <= 1:
		o.lo, o.hi, o.frac = 0, 0, 0
		return
	case n == 2:
		o.lo, o.hi, o.frac = 0, 1, position
		return
	}

	seg := position * float64(n-1)
	if r := math.Round(seg); math.Abs(seg-r) < morphSnap {
		seg = r
	}

	i := int(seg)
	frac := seg - float64(i)
	if i >= n-1 {
		i = n - 2
		frac = 1
	}

	o.lo, o.hi, o.frac = i, i+1, frac
}

// Index returns the table index read at time seconds.
func (o *Oscillator) Index(time float64) int {
	pos := math.Mod(time/o.timePerSample, o.samplesPerCycle)
	if pos < 0 {
		pos += o.samplesPerCycle
	}

	idx := int(pos * o.scale)
	if idx >= TableLength {
		idx = TableLength - 1
	} else if idx < 0 {
		idx = 0
	}
	return idx
}

// Process returns the sample at time seconds.
func (o *Oscillator) Process(time float64) float64 {
	idx := o.Index(time)
	a := o.tables[o.lo][idx]
	if o.frac == 0 {
		return a
	}
	return core.Lerp(a, o.tables[o.hi][idx], o.frac)
}
