package synth

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/effects"
	"github.com/cwbudde/algo-synth/dsp/effects/reverb"
	"github.com/cwbudde/algo-synth/dsp/filter/biquad"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/lfo"
	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// maxDetuneCents is the oscillator detune at full analog amount.
	maxDetuneCents = 15
	// maxVelocityJitter is the velocity reduction at full analog amount.
	maxVelocityJitter = 0.2
)

var oscParams = [numOscillators]struct {
	morphStart, morphEnd       ParamID
	warpA, warpD, warpS, warpR ParamID
	tuning, fine, bank         ParamID
}{
	{
		ParamOsc1MorphStart, ParamOsc1MorphEnd,
		ParamOsc1WarpAttack, ParamOsc1WarpDecay, ParamOsc1WarpSustain, ParamOsc1WarpRelease,
		ParamOsc1Tuning, ParamOsc1Fine, ParamOsc1Bank,
	},
	{
		ParamOsc2MorphStart, ParamOsc2MorphEnd,
		ParamOsc2WarpAttack, ParamOsc2WarpDecay, ParamOsc2WarpSustain, ParamOsc2WarpRelease,
		ParamOsc2Tuning, ParamOsc2Fine, ParamOsc2Bank,
	},
}

// Synth is the polyphonic voice manager and effect chain.
//
// All methods except Params and Snapshots must be called from one goroutine,
// usually the audio callback. Rendering does not allocate.
type Synth struct {
	cfg    core.ProcessorConfig
	store  *wavetable.Store
	params *Params
	logger *slog.Logger
	rng    *rand.Rand

	maxVoices int
	voices    [numNotes]Voice
	active    [numNotes]bool
	numActive int
	seq       uint64

	lfo      *lfo.LFO
	filter   biquad.Section
	drive    *effects.Drive
	reverb   *reverb.Network
	analyzer *spectrum.Analyzer

	mod       VoiceModulation
	dryMix    float64
	lastCut   float64
	lastQ     float64
	lastDepth float64
	lastVerb  [4]float64
	verbDepth float64
	envShape  [4]float64
	envDirty  bool
	lfoDirty  bool
	mono      []float64
	waveform  []float64
	preview   []float64
	snapshots *Snapshots

	ignoredNoteOffs atomic.Uint64
	droppedVoices   atomic.Uint64
}

// New returns a synth reading its waveforms from store.
func New(store *wavetable.Store, opts ...Option) (*Synth, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if store == nil {
		return nil, fmt.Errorf("synth: %w: nil store", wavetable.ErrMissingBank)
	}

	for _, id := range wavetable.BankIDs() {
		if _, err := store.Bank(id); err != nil {
			return nil, fmt.Errorf("synth: %w", err)
		}
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	if cfg.params == nil {
		cfg.params = NewParams()
	}

	sr := cfg.processor.SampleRate
	p := cfg.params
	p.prepare(sr)
	p.settle()

	l, err := lfo.New(store, sr, p.Value(ParamLFOPeriod))
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	l.SetMorph(p.Value(ParamLFOIndex))

	drive, err := effects.NewDrive()
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	verb, err := reverb.New(sr, reverb.WithCapacity(cfg.reverbCapacity))
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	analyzer, err := spectrum.NewAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	s := &Synth{
		cfg:       cfg.processor,
		store:     store,
		params:    p,
		logger:    cfg.logger,
		rng:       rand.New(rand.NewSource(cfg.seed)),
		maxVoices: cfg.maxVoices,
		lfo:       l,
		drive:     drive,
		reverb:    verb,
		analyzer:  analyzer,
		envDirty:  true,
		lfoDirty:  true,
		mono:      make([]float64, cfg.processor.BlockSize),
		waveform:  make([]float64, WaveformLength),
		preview:   make([]float64, lfo.PreviewLength),
		snapshots: newSnapshots(analyzer.WindowSize()),
	}

	s.updateFilter(0)
	s.updateReverb(0)
	s.envShape = s.adsr()

	s.logger.Debug("synth ready",
		"sample_rate", sr,
		"block_size", cfg.processor.BlockSize,
		"max_voices", cfg.maxVoices)

	return s, nil
}

// SampleRate returns the output sample rate.
func (s *Synth) SampleRate() float64 { return s.cfg.SampleRate }

// Params returns the parameter set.
func (s *Synth) Params() *Params { return s.params }

// Snapshots returns the visualization side channels.
func (s *Synth) Snapshots() *Snapshots { return s.snapshots }

// ActiveVoices returns the number of voices in the table, including
// finished voices that have not been reaped yet.
func (s *Synth) ActiveVoices() int { return s.numActive }

// Voice returns the voice playing note.
func (s *Synth) Voice(note uint8) (*Voice, bool) {
	if int(note) >= numNotes || !s.active[note] {
		return nil, false
	}

	return &s.voices[note], true
}

// IgnoredNoteOffs returns how many note-offs arrived for inactive keys.
func (s *Synth) IgnoredNoteOffs() uint64 { return s.ignoredNoteOffs.Load() }

// DroppedVoices returns how many voices were removed for non-finite output.
func (s *Synth) DroppedVoices() uint64 { return s.droppedVoices.Load() }

// DryMix returns the sum of all voices for the last rendered sample, before
// the filter.
func (s *Synth) DryMix() float64 { return s.dryMix }

// NoteOn starts note, replacing a voice already playing it.
func (s *Synth) NoteOn(note uint8, velocity float64) {
	if int(note) >= numNotes {
		s.logger.Debug("note on out of range", "note", note)
		return
	}

	if !core.IsFinite(velocity) {
		velocity = 0
	}

	velocity = core.Clamp(velocity, 0, 1)

	if !s.active[note] && s.maxVoices > 0 && s.numActive >= s.maxVoices {
		s.steal()
	}

	p := s.params
	analog := p.Value(ParamAnalog)

	var setup [numOscillators]OscSetup
	for i, ids := range oscParams {
		setup[i] = OscSetup{
			Bank:      wavetable.BankID(int(math.Round(p.Value(ids.bank)))),
			Semitones: p.Value(ids.tuning),
			Cents:     p.Value(ids.fine) + (2*s.rng.Float64()-1)*maxDetuneCents*analog,
		}
	}

	velocity *= 1 - maxVelocityJitter*analog*s.rng.Float64()

	v := &s.voices[note]
	if err := v.Init(s.store, note, velocity, s.cfg.SampleRate, setup); err != nil {
		s.logger.Error("note on failed", "note", note, "error", err)

		if s.active[note] {
			s.active[note] = false
			s.numActive--
		}

		return
	}

	s.seq++
	v.startSeq = s.seq

	if !s.active[note] {
		s.active[note] = true
		s.numActive++
	}
}

// NoteOff releases note. A note-off for a key without a voice is ignored
// and counted.
func (s *Synth) NoteOff(note uint8) {
	if int(note) >= numNotes || !s.active[note] {
		s.ignoredNoteOffs.Add(1)
		s.logger.Debug("note off for inactive key", "note", note)

		return
	}

	v := &s.voices[note]
	if v.released {
		return
	}

	v.Off()

	s.seq++
	v.releaseSeq = s.seq
}

// Event applies a note event immediately, ignoring its offset.
func (s *Synth) Event(e Event) {
	switch e.Kind {
	case EventNoteOn:
		s.NoteOn(e.Note, e.Velocity)
	case EventNoteOff:
		s.NoteOff(e.Note)
	default:
		s.logger.Debug("unknown event", "kind", e.Kind)
	}
}

// steal frees the oldest released voice, or the oldest voice.
func (s *Synth) steal() {
	victim := -1

	var best uint64

	for n := range s.voices {
		if !s.active[n] || !s.voices[n].released {
			continue
		}

		if victim < 0 || s.voices[n].releaseSeq < best {
			victim, best = n, s.voices[n].releaseSeq
		}
	}

	if victim < 0 {
		for n := range s.voices {
			if !s.active[n] {
				continue
			}

			if victim < 0 || s.voices[n].startSeq < best {
				victim, best = n, s.voices[n].startSeq
			}
		}
	}

	if victim < 0 {
		return
	}

	s.active[victim] = false
	s.numActive--
	s.logger.Debug("voice stolen", "note", victim)
}

// ReapVoices removes finished voices and returns how many were removed.
func (s *Synth) ReapVoices() int {
	reaped := 0

	for n := range s.voices {
		if s.active[n] && s.voices[n].finished {
			s.active[n] = false
			reaped++
		}
	}

	s.numActive -= reaped

	return reaped
}

// ProcessSample renders one stereo sample.
func (s *Synth) ProcessSample() (left, right float64) {
	p := s.params
	p.Advance()

	s.lfo.Tick()

	if period := p.Value(ParamLFOPeriod); period != s.lfo.Period() {
		s.lfo.SetPeriod(period)
		s.lfoDirty = true
	}

	if index := p.Value(ParamLFOIndex); index != s.lfo.Morph() {
		s.lfo.SetMorph(index)
		s.lfoDirty = true
	}

	lfoAmp := s.lfo.Amplitude()

	s.updateFilter(lfoAmp)
	s.updateReverb(lfoAmp)

	if shape := s.adsr(); shape != s.envShape {
		s.envShape = shape
		s.envDirty = true
	}

	s.loadModulation(lfoAmp)

	sum := 0.0

	for n := range s.voices {
		if !s.active[n] {
			continue
		}

		x := s.voices[n].Process(&s.mod)
		if !core.IsFinite(x) {
			s.active[n] = false
			s.numActive--
			s.droppedVoices.Add(1)
			s.logger.Warn("dropping voice with non-finite output", "note", n)

			continue
		}

		sum += x
	}

	s.dryMix = sum

	filtered := s.filter.ProcessSample(sum)

	amount := core.Clamp(p.Value(ParamDriveLevel)+lfoAmp*p.Value(ParamDriveLFO), 0, 1)
	driven := s.drive.ProcessMix(filtered, amount)

	wetL, wetR := s.reverb.Process(driven)
	volume := p.Value(ParamReverbVolume)
	gain := p.Value(ParamGain)

	left = core.Lerp(driven, wetL, volume) * gain
	right = core.Lerp(driven, wetR, volume) * gain

	return left, right
}

// ProcessBlock renders len(left) samples (bounded by len(right)), applying
// each event before the sample at its offset. Events must be ordered by
// offset; offsets are clamped into the block. After rendering, finished
// voices are reaped and the snapshots are published.
func (s *Synth) ProcessBlock(events []Event, left, right []float64) {
	n := min(len(left), len(right))
	next := 0

	for i := range n {
		for next < len(events) && clampOffset(events[next].Offset, n) <= i {
			s.Event(events[next])
			next++
		}

		left[i], right[i] = s.ProcessSample()
	}

	for ; next < len(events); next++ {
		s.Event(events[next])
	}

	s.ReapVoices()
	s.publish(left[:n], right[:n])
}

func clampOffset(offset, n int) int {
	if offset < 0 {
		return 0
	}

	if offset >= n {
		return max(n-1, 0)
	}

	return offset
}

func (s *Synth) publish(left, right []float64) {
	spectrumFresh := false
	chunk := len(s.mono)

	for start := 0; start < len(left); start += chunk {
		end := min(start+chunk, len(left))
		mono := s.mono[:end-start]

		copy(mono, left[start:end])
		vecmath.AddBlockInPlace(mono, right[start:end])
		vecmath.ScaleBlock(mono, mono, 0.5)

		if s.analyzer.Process(mono) {
			spectrumFresh = true
		}

		if end == len(left) {
			k := core.Decimate(s.waveform, mono)
			s.snapshots.waveform.Publish(s.waveform[:k])
		}
	}

	if spectrumFresh {
		s.snapshots.spectrum.Publish(s.analyzer.Bins())
	}

	if s.envDirty {
		s.snapshots.envelope.Publish(s.envShape[:])
		s.envDirty = false
	}

	if s.lfoDirty {
		k := s.lfo.GenerateSamples(s.preview)
		s.snapshots.lfoPreview.Publish(s.preview[:k])
		s.lfoDirty = false
	}
}

func (s *Synth) adsr() [4]float64 {
	p := s.params

	return [4]float64{
		p.Value(ParamAttack),
		p.Value(ParamDecay),
		p.Value(ParamSustain),
		p.Value(ParamRelease),
	}
}

func (s *Synth) loadModulation(lfoAmp float64) {
	p := s.params
	m := &s.mod

	m.Attack = p.Value(ParamAttack)
	m.Decay = p.Value(ParamDecay)
	m.Sustain = p.Value(ParamSustain)
	m.Release = p.Value(ParamRelease)

	for i, ids := range oscParams {
		m.Osc[i] = OscModulation{
			MorphStart:  p.Value(ids.morphStart),
			MorphEnd:    p.Value(ids.morphEnd),
			WarpAttack:  p.Value(ids.warpA),
			WarpDecay:   p.Value(ids.warpD),
			WarpSustain: p.Value(ids.warpS),
			WarpRelease: p.Value(ids.warpR),
		}
	}

	m.Balance = p.Value(ParamBalance)
	m.BalanceLFO = p.Value(ParamBalanceLFO)
	m.LFO = lfoAmp
}

// updateFilter recomputes the lowpass when cutoff or Q moved or the LFO
// modulates the cutoff. The sample after the LFO depth reaches 0 recomputes
// once more to drop the last LFO offset.
func (s *Synth) updateFilter(lfoAmp float64) {
	p := s.params
	cutoff := p.Value(ParamFilterCutoff)
	q := p.Value(ParamFilterQ)
	depth := p.Value(ParamFilterLFO)

	if depth == 0 && s.lastDepth == 0 && cutoff == s.lastCut && q == s.lastQ {
		return
	}

	s.lastCut, s.lastQ, s.lastDepth = cutoff, q, depth
	s.filter.SetCoefficients(design.Lowpass(cutoff+lfoAmp*depth, q, s.cfg.SampleRate))
}

// updateReverb re-derives the reverb stages when a reverb parameter moved
// or the LFO modulates the delay.
func (s *Synth) updateReverb(lfoAmp float64) {
	p := s.params
	settings := [4]float64{
		p.Value(ParamReverbDelay),
		p.Value(ParamReverbFeedback),
		p.Value(ParamReverbColor),
		p.Value(ParamReverbQ),
	}
	depth := p.Value(ParamReverbLFO)

	if depth == 0 && s.verbDepth == 0 && settings == s.lastVerb {
		return
	}

	s.lastVerb, s.verbDepth = settings, depth
	delay := int(math.Round(settings[0] + lfoAmp*depth))
	s.reverb.Update(delay, settings[1], settings[2], settings[3])
}
