package envelope

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// timeEpsilon absorbs the rounding left over when times are derived from
// sample counts, so a release of r seconds finishes on the sample at r.
const timeEpsilon = 1e-9

// ADSR is an attack/decay/sustain/release envelope driven by the time since
// note-on and the time of note-off rather than by internal ticking.
//
// Durations are in seconds and sustain is a level in [0, 1]. The zero value
// is an envelope with instantaneous phases and zero sustain.
type ADSR struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	releaseStart float64
	value        float64
	finished     bool
}

// New returns an envelope after validating its settings.
func New(attack, decay, sustain, release float64) (*ADSR, error) {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"attack", attack},
		{"decay", decay},
		{"release", release},
	} {
		if !core.IsFinite(v.val) || v.val < 0 {
			return nil, fmt.Errorf("envelope %s must be >= 0: %f", v.name, v.val)
		}
	}
	if !core.IsFinite(sustain) || sustain < 0 || sustain > 1 {
		return nil, fmt.Errorf("envelope sustain must be in [0,1]: %f", sustain)
	}

	e := &ADSR{}
	e.Set(attack, decay, sustain, release)
	return e, nil
}

// Set refreshes the envelope settings. It is called every sample with the
// current smoothed parameter values, so it clamps instead of failing.
func (e *ADSR) Set(attack, decay, sustain, release float64) {
	e.attack = nonNegative(attack)
	e.decay = nonNegative(decay)
	e.release = nonNegative(release)
	if !core.IsFinite(sustain) {
		sustain = 0
	}
	e.sustain = core.Clamp(sustain, 0, 1)
}

// Settings returns attack, decay, sustain and release.
func (e *ADSR) Settings() (attack, decay, sustain, release float64) {
	return e.attack, e.decay, e.sustain, e.release
}

// Process returns the envelope value at timeSinceOn seconds. A timeOff of 0
// means the note is held; otherwise it is the timeSinceOn at which the note
// was released.
func (e *ADSR) Process(timeSinceOn, timeOff float64) float64 {
	if timeOff == 0 {
		e.value = e.held(timeSinceOn)
		e.releaseStart = e.value
		return e.value
	}

	elapsed := timeSinceOn - timeOff
	if elapsed >= e.release-timeEpsilon {
		e.finished = true
		e.value = 0
		return 0
	}

	e.value = e.releaseStart - elapsed*(e.releaseStart/e.release)
	return e.value
}

func (e *ADSR) held(t float64) float64 {
	switch {
	case t < e.attack:
		return t / e.attack
	case t < e.attack+e.decay:
		return 1 - (t-e.attack)*(1-e.sustain)/e.decay
	default:
		return e.sustain
	}
}

// Value returns the most recently computed value.
func (e *ADSR) Value() float64 {
	return e.value
}

// ReleaseStart returns the level the release ramp starts from.
func (e *ADSR) ReleaseStart() float64 {
	return e.releaseStart
}

// Finished reports whether the release phase has completed.
func (e *ADSR) Finished() bool {
	return e.finished
}

// Reset clears the runtime state and keeps the settings.
func (e *ADSR) Reset() {
	e.releaseStart = 0
	e.value = 0
	e.finished = false
}

func nonNegative(v float64) float64 {
	if !core.IsFinite(v) || v < 0 {
		return 0
	}
	return v
}
