package synth

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func flatModulation() VoiceModulation {
	m := VoiceModulation{Sustain: 1}
	for i := range m.Osc {
		m.Osc[i].WarpSustain = 1
	}

	return m
}

func TestVoiceInitRejectsMissingBank(t *testing.T) {
	store, err := wavetable.NewStore(map[wavetable.BankID][][]float64{
		wavetable.BankBasic: testutil.ConstantTables(wavetable.TableLength, 1),
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	var v Voice

	setup := [numOscillators]OscSetup{{Bank: wavetable.BankBasic}, {Bank: wavetable.BankVocal}}
	if err := v.Init(store, 60, 1, 48000, setup); err == nil {
		t.Fatal("expected missing bank error")
	}
}

func TestVoiceFrequencies(t *testing.T) {
	var v Voice

	setup := [numOscillators]OscSetup{
		{Bank: wavetable.BankBasic},
		{Bank: wavetable.BankBasic, Semitones: 12, Cents: 0},
	}
	if err := v.Init(constantStore(t), 69, 1, 48000, setup); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if v.Frequency(0) != 440 || math.Abs(v.Frequency(1)-880) > 1e-9 {
		t.Fatalf("frequencies = %v, %v; want 440, 880", v.Frequency(0), v.Frequency(1))
	}

	if v.Frequency(2) != 0 {
		t.Fatal("Frequency(2) must be 0")
	}
}

func TestVoiceBalanceAndVelocity(t *testing.T) {
	var v Voice

	// Oscillator 1 reads a constant 2, oscillator 2 a constant 4.
	setup := [numOscillators]OscSetup{{Bank: wavetable.BankHarmonic}, {Bank: wavetable.BankPulse}}
	if err := v.Init(constantStore(t), 60, 0.5, 1000, setup); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	tests := []struct {
		name             string
		balance, lfo, by float64
		want             float64
	}{
		{name: "osc1 only", balance: 0, want: 2 * 0.5},
		{name: "osc2 only", balance: 1, want: 4 * 0.5},
		{name: "half", balance: 0.5, want: 3 * 0.5},
		{name: "lfo push", balance: 0.5, lfo: 1, by: 0.5, want: 4 * 0.5},
		{name: "lfo clamps", balance: 0, lfo: -1, by: 1, want: 2 * 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := flatModulation()
			m.Balance = tt.balance
			m.LFO = tt.lfo
			m.BalanceLFO = tt.by

			if got := v.Process(&m); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Process() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVoiceMorphFollowsWarpEnvelope(t *testing.T) {
	var v Voice

	// The basic bank holds tables of 0 and 1, so the output is the morph position.
	setup := [numOscillators]OscSetup{{Bank: wavetable.BankBasic}, {Bank: wavetable.BankBasic}}
	if err := v.Init(constantStore(t), 60, 1, 1000, setup); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	m := flatModulation()
	m.Osc[0] = OscModulation{MorphStart: 0, MorphEnd: 1, WarpAttack: 1, WarpSustain: 1}

	for k := range 1000 {
		got := v.Process(&m)
		want := float64(k) / 1000

		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", k, got, want)
		}
	}
}

func TestVoiceAmplitudeUsesAdvancedTime(t *testing.T) {
	var v Voice

	setup := [numOscillators]OscSetup{{Bank: wavetable.BankPulse}, {Bank: wavetable.BankPulse}}
	if err := v.Init(constantStore(t), 60, 1, 1000, setup); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	m := flatModulation()
	m.Attack = 0.01

	out := make([]float64, 10)
	for i := range out {
		out[i] = v.Process(&m)
	}

	for i, got := range out {
		want := 4 * float64(i+1) / 10
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}

	testutil.RequireNearlyEqual(t, "Amplitude", v.Amplitude(), 1, 1e-12)
}

func TestVoiceOffRecordsOnce(t *testing.T) {
	var v Voice

	setup := [numOscillators]OscSetup{{Bank: wavetable.BankPulse}, {Bank: wavetable.BankPulse}}
	if err := v.Init(constantStore(t), 60, 1, 1000, setup); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	m := flatModulation()
	m.Release = 1

	for range 100 {
		v.Process(&m)
	}

	v.Off()

	for range 50 {
		v.Process(&m)
	}

	v.Off()

	if !v.Released() || v.TimeOff() != 0.1 {
		t.Fatalf("TimeOff() = %v, want 0.1", v.TimeOff())
	}

	testutil.RequireNearlyEqual(t, "Time", v.Time(), 0.15, 1e-12)
}

func TestVoiceReleaseAtTimeZero(t *testing.T) {
	var v Voice

	setup := [numOscillators]OscSetup{{Bank: wavetable.BankPulse}, {Bank: wavetable.BankPulse}}
	if err := v.Init(constantStore(t), 60, 1, 1000, setup); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	v.Off()

	if v.TimeOff() != 0 || !v.Released() {
		t.Fatal("release at time zero not recorded")
	}

	m := flatModulation()
	m.Release = 0.005

	for range 5 {
		v.Process(&m)
	}

	if !v.Finished() {
		t.Fatalf("voice released at t=0 not finished after the release time (amp %v)", v.Amplitude())
	}
}
