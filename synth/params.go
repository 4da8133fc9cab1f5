package synth

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// ParamID identifies one engine parameter.
type ParamID int

// Engine parameters.
const (
	ParamGain ParamID = iota
	ParamAttack
	ParamDecay
	ParamSustain
	ParamRelease

	ParamOsc1MorphStart
	ParamOsc1MorphEnd
	ParamOsc1WarpAttack
	ParamOsc1WarpDecay
	ParamOsc1WarpSustain
	ParamOsc1WarpRelease
	ParamOsc1Tuning
	ParamOsc1Fine
	ParamOsc1Bank

	ParamOsc2MorphStart
	ParamOsc2MorphEnd
	ParamOsc2WarpAttack
	ParamOsc2WarpDecay
	ParamOsc2WarpSustain
	ParamOsc2WarpRelease
	ParamOsc2Tuning
	ParamOsc2Fine
	ParamOsc2Bank

	ParamBalance
	ParamBalanceLFO
	ParamAnalog

	ParamFilterCutoff
	ParamFilterQ
	ParamFilterLFO

	ParamLFOPeriod
	ParamLFOIndex

	ParamReverbVolume
	ParamReverbDelay
	ParamReverbFeedback
	ParamReverbColor
	ParamReverbQ
	ParamReverbLFO

	ParamDriveLevel
	ParamDriveLFO

	paramCount
)

// SmoothingStyle selects how a parameter ramps towards a new target.
type SmoothingStyle int

const (
	// SmoothNone applies new targets immediately.
	SmoothNone SmoothingStyle = iota
	// SmoothLinear ramps by a constant step.
	SmoothLinear
	// SmoothLogarithmic ramps by a constant ratio, which sounds even for
	// frequencies, times and gains. Ramps that start or end at zero or cross
	// it are linear.
	SmoothLogarithmic
)

// String returns the style name.
func (s SmoothingStyle) String() string {
	switch s {
	case SmoothNone:
		return "none"
	case SmoothLinear:
		return "linear"
	case SmoothLogarithmic:
		return "logarithmic"
	default:
		return "unknown"
	}
}

// ParamInfo describes a parameter.
type ParamInfo struct {
	Name      string
	Min       float64
	Max       float64
	Default   float64
	Smoothing SmoothingStyle
	// SmoothingMs is the ramp duration in milliseconds.
	SmoothingMs float64
	Unit        string
}

const (
	smoothMs       = 50
	filterSmoothMs = 100
)

var paramInfos = [paramCount]ParamInfo{
	ParamGain:    {Name: "gain", Min: core.DBToLinear(-36), Max: 1, Default: core.DBToLinear(-12), Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamAttack:  {Name: "attack", Min: 0, Max: 5, Default: 0.01, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamDecay:   {Name: "decay", Min: 0, Max: 5, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamSustain: {Name: "sustain", Min: 0, Max: 1, Default: 1, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamRelease: {Name: "release", Min: 0, Max: 5, Default: 0.01, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},

	ParamOsc1MorphStart:  {Name: "osc1-morph-start", Min: 0, Max: 1, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamOsc1MorphEnd:    {Name: "osc1-morph-end", Min: 0, Max: 1, Default: 0.5, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamOsc1WarpAttack:  {Name: "osc1-warp-attack", Min: 0, Max: 5, Default: 0.5, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamOsc1WarpDecay:   {Name: "osc1-warp-decay", Min: 0, Max: 5, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamOsc1WarpSustain: {Name: "osc1-warp-sustain", Min: 0, Max: 1, Default: 1, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamOsc1WarpRelease: {Name: "osc1-warp-release", Min: 0, Max: 5, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamOsc1Tuning:      {Name: "osc1-tuning", Min: -3, Max: 3, Default: 0, Unit: "st"},
	ParamOsc1Fine:        {Name: "osc1-tuning-fine", Min: -10, Max: 10, Default: 0, Unit: "ct"},
	ParamOsc1Bank:        {Name: "osc1-bank", Min: 0, Max: 3, Default: 0},

	ParamOsc2MorphStart:  {Name: "osc2-morph-start", Min: 0, Max: 1, Default: 0.5, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamOsc2MorphEnd:    {Name: "osc2-morph-end", Min: 0, Max: 1, Default: 1, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamOsc2WarpAttack:  {Name: "osc2-warp-attack", Min: 0, Max: 5, Default: 0.2, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamOsc2WarpDecay:   {Name: "osc2-warp-decay", Min: 0, Max: 5, Default: 0.2, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamOsc2WarpSustain: {Name: "osc2-warp-sustain", Min: 0, Max: 1, Default: 0.5, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamOsc2WarpRelease: {Name: "osc2-warp-release", Min: 0, Max: 5, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamOsc2Tuning:      {Name: "osc2-tuning", Min: -3, Max: 3, Default: 0, Unit: "st"},
	ParamOsc2Fine:        {Name: "osc2-tuning-fine", Min: -10, Max: 10, Default: 0, Unit: "ct"},
	ParamOsc2Bank:        {Name: "osc2-bank", Min: 0, Max: 3, Default: 1},

	ParamBalance:    {Name: "balance", Min: 0, Max: 1, Default: 0.5, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},
	ParamBalanceLFO: {Name: "balance-lfo", Min: 0, Max: 1, Default: 0, Smoothing: SmoothLinear, SmoothingMs: smoothMs},
	ParamAnalog:     {Name: "analog", Min: 0, Max: 1, Default: 0},

	ParamFilterCutoff: {Name: "filter-cutoff", Min: 40, Max: 18000, Default: 10000, Smoothing: SmoothLogarithmic, SmoothingMs: filterSmoothMs, Unit: "Hz"},
	ParamFilterQ:      {Name: "filter-q", Min: math.Sqrt2 / 2, Max: 10, Default: math.Sqrt2, Smoothing: SmoothLogarithmic, SmoothingMs: filterSmoothMs},
	ParamFilterLFO:    {Name: "filter-lfo", Min: 0, Max: 7000, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: filterSmoothMs, Unit: "Hz"},

	ParamLFOPeriod: {Name: "lfo-period", Min: 0.1, Max: 20, Default: 1, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs, Unit: "s"},
	ParamLFOIndex:  {Name: "lfo-index", Min: 0, Max: 1, Default: 0, Smoothing: SmoothLogarithmic, SmoothingMs: smoothMs},

	ParamReverbVolume:   {Name: "reverb-volume", Min: 0, Max: 1, Default: 0.2, Smoothing: SmoothLinear, SmoothingMs: smoothMs},
	ParamReverbDelay:    {Name: "reverb-delay", Min: 2000, Max: 40000, Default: 6000, Smoothing: SmoothLinear, SmoothingMs: filterSmoothMs, Unit: "samples"},
	ParamReverbFeedback: {Name: "reverb-feedback", Min: 0, Max: 0.75, Default: 0.3, Smoothing: SmoothLinear, SmoothingMs: smoothMs},
	ParamReverbColor:    {Name: "reverb-color", Min: 220, Max: 8000, Default: 1000, Smoothing: SmoothLogarithmic, SmoothingMs: filterSmoothMs, Unit: "Hz"},
	ParamReverbQ:        {Name: "reverb-q", Min: 0.1, Max: 10, Default: 2, Smoothing: SmoothLogarithmic, SmoothingMs: filterSmoothMs},
	ParamReverbLFO:      {Name: "reverb-lfo", Min: 0, Max: 2000, Default: 0, Smoothing: SmoothLinear, SmoothingMs: smoothMs, Unit: "samples"},

	ParamDriveLevel: {Name: "drive", Min: 0, Max: 1, Default: 0, Smoothing: SmoothLinear, SmoothingMs: smoothMs},
	ParamDriveLFO:   {Name: "drive-lfo", Min: 0, Max: 1, Default: 0, Smoothing: SmoothLinear, SmoothingMs: smoothMs},
}

var paramsByName = func() map[string]ParamID {
	m := make(map[string]ParamID, paramCount)
	for id := range paramCount {
		m[paramInfos[id].Name] = id
	}

	return m
}()

// Valid reports whether id names a parameter.
func (id ParamID) Valid() bool {
	return id >= 0 && id < paramCount
}

// String returns the parameter name.
func (id ParamID) String() string {
	if !id.Valid() {
		return "unknown"
	}

	return paramInfos[id].Name
}

// Info returns the static description of id. Unknown ids yield the zero
// ParamInfo.
func Info(id ParamID) ParamInfo {
	if !id.Valid() {
		return ParamInfo{}
	}

	return paramInfos[id]
}

// ParamIDs returns every parameter in declaration order.
func ParamIDs() []ParamID {
	ids := make([]ParamID, paramCount)
	for i := range ids {
		ids[i] = ParamID(i)
	}

	return ids
}

// ParamByName looks up a parameter by its name.
func ParamByName(name string) (ParamID, bool) {
	id, ok := paramsByName[name]
	return id, ok
}

// Params is the engine parameter set.
//
// Set, Jump and Plain may be called from any goroutine: targets are stored
// in atomics. Value, IsSmoothing and Advance belong to the audio goroutine,
// which advances every parameter exactly once per sample.
type Params struct {
	targets [paramCount]atomic.Uint64
	jumps   [paramCount]atomic.Bool

	smoothers [paramCount]smoother
}

// NewParams returns a parameter set holding the defaults, prepared for
// 48 kHz until an engine adopts it.
func NewParams() *Params {
	p := &Params{}

	for id := range paramCount {
		info := &paramInfos[id]
		p.targets[id].Store(math.Float64bits(info.Default))
		p.smoothers[id].reset(info.Default)
	}

	p.prepare(core.DefaultProcessorConfig().SampleRate)

	return p
}

// Set requests a smoothed move of id to value, clamped to its range.
// Non-finite values and unknown ids are ignored.
func (p *Params) Set(id ParamID, value float64) {
	if !id.Valid() || !core.IsFinite(value) {
		return
	}

	info := &paramInfos[id]
	p.targets[id].Store(math.Float64bits(core.Clamp(value, info.Min, info.Max)))
}

// Jump moves id to value without smoothing at the next sample.
func (p *Params) Jump(id ParamID, value float64) {
	if !id.Valid() || !core.IsFinite(value) {
		return
	}

	p.Set(id, value)
	p.jumps[id].Store(true)
}

// Plain returns the target value of id.
func (p *Params) Plain(id ParamID) float64 {
	if !id.Valid() {
		return 0
	}

	return math.Float64frombits(p.targets[id].Load())
}

// Value returns the current smoothed value of id.
func (p *Params) Value(id ParamID) float64 {
	if !id.Valid() {
		return 0
	}

	return p.smoothers[id].current
}

// IsSmoothing reports whether id is still ramping towards its target.
func (p *Params) IsSmoothing(id ParamID) bool {
	if !id.Valid() {
		return false
	}

	return p.smoothers[id].remaining > 0
}

// Advance pulls every parameter one sample towards its target.
func (p *Params) Advance() {
	for id := range p.smoothers {
		target := math.Float64frombits(p.targets[id].Load())

		s := &p.smoothers[id]
		if p.jumps[id].Swap(false) {
			s.reset(target)
			continue
		}

		s.setTarget(target)
		s.next()
	}
}

// prepare sizes the smoothing ramps for sampleRate.
func (p *Params) prepare(sampleRate float64) {
	for id := range paramCount {
		info := &paramInfos[id]
		p.smoothers[id].configure(info.Smoothing, info.SmoothingMs, sampleRate)
	}
}

// settle snaps every parameter to its target.
func (p *Params) settle() {
	for id := range paramCount {
		p.jumps[id].Store(false)
		p.smoothers[id].reset(math.Float64frombits(p.targets[id].Load()))
	}
}
