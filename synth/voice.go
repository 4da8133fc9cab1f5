package synth

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/envelope"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
)

const numOscillators = 2

// OscModulation holds the per-sample settings of one oscillator's morph
// envelope.
type OscModulation struct {
	MorphStart float64
	MorphEnd   float64

	WarpAttack  float64
	WarpDecay   float64
	WarpSustain float64
	WarpRelease float64
}

// VoiceModulation is the set of smoothed values a voice reads each sample.
type VoiceModulation struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64

	Osc [numOscillators]OscModulation

	Balance    float64
	BalanceLFO float64
	// LFO is the shared LFO amplitude for the current sample.
	LFO float64
}

// OscSetup fixes an oscillator's bank and pitch offset when a voice starts.
type OscSetup struct {
	Bank      wavetable.BankID
	Semitones float64
	Cents     float64
}

// Voice is the synthesis state of one sounding note: two morphing
// oscillators, their morph envelopes and the amplitude envelope.
//
// Time is kept as a sample count so long notes do not drift.
type Voice struct {
	note       uint8
	velocity   float64
	sampleRate float64

	samples    int64
	offSamples int64
	released   bool
	finished   bool

	osc      [numOscillators]wavetable.Oscillator
	morphEnv [numOscillators]envelope.ADSR
	env      envelope.ADSR

	startSeq   uint64
	releaseSeq uint64
}

// Init (re)starts v as note at velocity. It does not allocate.
func (v *Voice) Init(store *wavetable.Store, note uint8, velocity, sampleRate float64, setup [numOscillators]OscSetup) error {
	for i := range v.osc {
		freq := MidiNoteToFreq(float64(note), setup[i].Semitones, setup[i].Cents)
		if err := v.osc[i].Init(store, setup[i].Bank, freq, sampleRate); err != nil {
			return err
		}

		v.morphEnv[i].Reset()
	}

	v.env.Reset()

	v.note = note
	v.velocity = velocity
	v.sampleRate = sampleRate
	v.samples = 0
	v.offSamples = 0
	v.released = false
	v.finished = false

	return nil
}

// Note returns the MIDI note.
func (v *Voice) Note() uint8 { return v.note }

// Velocity returns the velocity after humanization.
func (v *Voice) Velocity() float64 { return v.velocity }

// Frequency returns the frequency of oscillator i.
func (v *Voice) Frequency(i int) float64 {
	if i < 0 || i >= numOscillators {
		return 0
	}

	return v.osc[i].Frequency()
}

// Time returns the seconds since note-on.
func (v *Voice) Time() float64 {
	return float64(v.samples) / v.sampleRate
}

// TimeOff returns the time since note-on at which the voice was released,
// or 0 while it is held.
func (v *Voice) TimeOff() float64 {
	if !v.released {
		return 0
	}

	return float64(v.offSamples) / v.sampleRate
}

// Released reports whether Off has been called.
func (v *Voice) Released() bool { return v.released }

// Finished reports whether the amplitude envelope has completed.
func (v *Voice) Finished() bool { return v.finished }

// Amplitude returns the last amplitude envelope value.
func (v *Voice) Amplitude() float64 { return v.env.Value() }

// Off releases the voice. Only the first call has an effect.
func (v *Voice) Off() {
	if v.released {
		return
	}

	v.released = true
	v.offSamples = v.samples
}

// envelopeTimeOff maps the release time to the envelope convention where 0
// means held. A release on the very first sample is still a release.
func (v *Voice) envelopeTimeOff() float64 {
	if !v.released {
		return 0
	}

	if v.offSamples == 0 {
		return math.SmallestNonzeroFloat64
	}

	return float64(v.offSamples) / v.sampleRate
}

// Process renders one sample and advances the voice by one sample period.
func (v *Voice) Process(m *VoiceModulation) float64 {
	t := v.Time()
	tOff := v.envelopeTimeOff()

	var out [numOscillators]float64

	for i := range v.osc {
		om := &m.Osc[i]

		env := &v.morphEnv[i]
		env.Set(om.WarpAttack, om.WarpDecay, om.WarpSustain, om.WarpRelease)
		warp := env.Process(t, tOff)

		v.osc[i].SetMorph(om.MorphStart + (om.MorphEnd-om.MorphStart)*warp)
		out[i] = v.osc[i].Process(t)
	}

	balance := core.Clamp(m.Balance+m.LFO*m.BalanceLFO, 0, 1)
	mixed := (1-balance)*out[0] + balance*out[1]

	v.samples++

	v.env.Set(m.Attack, m.Decay, m.Sustain, m.Release)
	amp := v.env.Process(v.Time(), tOff)

	if v.env.Finished() {
		v.finished = true
	}

	return mixed * amp * v.velocity
}
