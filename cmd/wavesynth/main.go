// Command wavesynth renders a chord or arpeggio through the morphing
// wavetable synth and writes it to a stereo WAV file.
//
// Usage:
//
//	wavesynth [flags]
//
// Parameters are set by name with repeated -set flags; -list-params prints
// every name with its range and default.
//
// Examples:
//
//	wavesynth -out chord.wav
//	wavesynth -notes 48,55,60,64 -stagger 0.25 -seconds 4
//	wavesynth -set filter-cutoff=800 -set filter-lfo=2000 -set reverb-volume=0.4
//	wavesynth -normalize -play -v
//	wavesynth -export-banks ./banks
package main

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-synth/dsp/buffer"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func main() {
	out := flag.String("out", "wavesynth.wav", "output WAV file (empty to skip)")
	seconds := flag.Float64("seconds", 3, "rendered length in seconds")
	hold := flag.Float64("hold", 1.5, "seconds from start until every note is released")
	stagger := flag.Float64("stagger", 0, "seconds between successive note-ons")
	notes := flag.String("notes", "60,64,67", "comma-separated MIDI notes")
	velocity := flag.Float64("velocity", 0.8, "note velocity in [0,1]")
	sampleRate := flag.Int("sample-rate", 48000, "sample rate in Hz")
	block := flag.Int("block", 512, "block size in samples")
	bits := flag.Int("bits", 16, "WAV bit depth (16 or 24)")
	voices := flag.Int("voices", 0, "polyphony cap (0 for unbounded)")
	normalize := flag.Bool("normalize", false, "scale the rendering to a -1 dBFS peak")
	seed := flag.Int64("seed", 1, "humanization seed")
	play := flag.Bool("play", false, "play the rendering on the default audio device")
	exportBanks := flag.String("export-banks", "", "write the bundled wavetable banks to this directory and exit")
	listParams := flag.Bool("list-params", false, "list parameter names and exit")
	verbose := flag.Bool("v", false, "verbose logging")

	settings := paramSettings{}
	flag.Var(&settings, "set", "set a parameter as name=value (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wavesynth [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders notes through the morphing wavetable synth.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wavesynth -out chord.wav\n")
		fmt.Fprintf(os.Stderr, "  wavesynth -notes 48,55,60,64 -stagger 0.25 -seconds 4\n")
		fmt.Fprintf(os.Stderr, "  wavesynth -set filter-cutoff=800 -set reverb-volume=0.4\n")
		fmt.Fprintf(os.Stderr, "  wavesynth -list-params\n")
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *listParams {
		if err := printParams(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	store, err := wavetable.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load wavetables: %v\n", err)
		os.Exit(1)
	}

	if *exportBanks != "" {
		if err := writeBanks(store, *exportBanks, *sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		logger.Info("banks exported", "dir", *exportBanks)

		return
	}

	keys, err := parseNotes(*notes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	params := synth.NewParams()
	settings.apply(params)

	s, err := synth.New(store,
		synth.WithSampleRate(float64(*sampleRate)),
		synth.WithBlockSize(*block),
		synth.WithMaxVoices(*voices),
		synth.WithSeed(*seed),
		synth.WithLogger(logger),
		synth.WithParams(params),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sr := float64(*sampleRate)
	frames := int(math.Round(*seconds * sr))
	events := schedule(keys, *velocity, secondsToFrames(*stagger, sr), secondsToFrames(*hold, sr))

	rendered := render(s, events, frames, *block)

	if *normalize {
		gain := normalizePeak(rendered, normalizeTargetDB)
		logger.Debug("normalized", "gain_db", core.LinearToDB(gain))
	}

	logger.Info("rendered",
		"frames", rendered.Frames(),
		"peak_db", core.LinearToDB(rendered.Peak()),
		"active_voices", s.ActiveVoices(),
		"ignored_note_offs", s.IgnoredNoteOffs(),
		"dropped_voices", s.DroppedVoices())
	logSpectrum(logger, s.Snapshots().Spectrum(), sr)

	if *out != "" {
		if err := saveWAV(*out, rendered, *sampleRate, *bits); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		logger.Info("wrote", "path", *out, "bits", *bits)
	}

	if *play {
		if err := playStereo(rendered, *sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "error: playback: %v\n", err)
			os.Exit(1)
		}
	}
}

// paramSettings collects repeated -set name=value flags.
type paramSettings map[synth.ParamID]float64

func (p paramSettings) String() string {
	parts := make([]string, 0, len(p))
	for _, id := range synth.ParamIDs() {
		if v, ok := p[id]; ok {
			parts = append(parts, fmt.Sprintf("%s=%g", id, v))
		}
	}

	return strings.Join(parts, ",")
}

func (p paramSettings) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", s)
	}

	id, ok := synth.ParamByName(strings.TrimSpace(name))
	if !ok {
		return fmt.Errorf("unknown parameter %q (use -list-params)", name)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", id, err)
	}

	p[id] = v

	return nil
}

// apply jumps every setting so the rendering starts at the requested values.
func (p paramSettings) apply(params *synth.Params) {
	for id, v := range p {
		params.Jump(id, v)
	}
}

func parseNotes(s string) ([]uint8, error) {
	var keys []uint8

	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("note %q: %w", field, err)
		}

		if n < 0 || n > 127 {
			return nil, fmt.Errorf("note %d out of range [0,127]", n)
		}

		keys = append(keys, uint8(n))
	}

	if len(keys) == 0 {
		return nil, errors.New("no notes given")
	}

	return keys, nil
}

func secondsToFrames(seconds, sampleRate float64) int {
	if seconds <= 0 {
		return 0
	}

	return int(math.Round(seconds * sampleRate))
}

// timedEvent places an event at an absolute frame.
type timedEvent struct {
	frame int
	event synth.Event
}

// schedule starts note i at i*stagger frames and releases every note at
// holdFrames, or right after its start if that comes later.
func schedule(keys []uint8, velocity float64, stagger, holdFrames int) []timedEvent {
	events := make([]timedEvent, 0, 2*len(keys))

	for i, key := range keys {
		events = append(events, timedEvent{
			frame: i * stagger,
			event: synth.NoteOn(0, key, velocity),
		})
	}

	for i, key := range keys {
		events = append(events, timedEvent{
			frame: max(holdFrames, i*stagger+1),
			event: synth.NoteOff(0, key),
		})
	}

	slices.SortStableFunc(events, func(a, b timedEvent) int {
		return cmp.Compare(a.frame, b.frame)
	})

	return events
}

// render runs the synth block by block for frames samples, dispatching each
// event inside the block that contains its frame.
func render(s *synth.Synth, events []timedEvent, frames, blockSize int) *buffer.Stereo {
	out := buffer.New(frames)
	left, right := out.Left(), out.Right()
	blockEvents := make([]synth.Event, 0, len(events))
	next := 0

	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)

		blockEvents = blockEvents[:0]
		for next < len(events) && events[next].frame < end {
			e := events[next].event
			e.Offset = max(events[next].frame-start, 0)
			blockEvents = append(blockEvents, e)
			next++
		}

		s.ProcessBlock(blockEvents, left[start:end], right[start:end])
	}

	return out
}

const normalizeTargetDB = -1

// normalizePeak scales out so its peak sits at targetDB and returns the
// applied gain. Silent renderings are left alone.
func normalizePeak(out *buffer.Stereo, targetDB float64) float64 {
	peak := out.Peak()
	if peak == 0 {
		return 1
	}

	gain := core.DBToLinear(targetDB) / peak
	out.Scale(gain)

	return gain
}

func saveWAV(path string, out *buffer.Stereo, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeWAV(f, out, sampleRate, bitDepth); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func writeWAV(w io.WriteSeeker, out *buffer.Stereo, sampleRate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("bit depth must be 16 or 24: %d", bitDepth)
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 2, 1)

	buf := &audio.IntBuffer{}
	out.IntBuffer(buf, sampleRate, bitDepth)

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}

	return enc.Close()
}

func writeBanks(store *wavetable.Store, dir string, sampleRate int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, id := range wavetable.BankIDs() {
		tables, err := store.Bank(id)
		if err != nil {
			return err
		}

		f, err := os.Create(filepath.Join(dir, id.String()+".wav"))
		if err != nil {
			return err
		}

		if err := wavetable.EncodeBank(f, tables, sampleRate); err != nil {
			_ = f.Close()
			return fmt.Errorf("bank %s: %w", id, err)
		}

		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

func printParams(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Name\tMin\tMax\tDefault\tSmoothing\tUnit\n"); err != nil {
		return err
	}

	for _, id := range synth.ParamIDs() {
		info := synth.Info(id)
		if _, err := fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\t%s\n",
			info.Name, info.Min, info.Max, info.Default, info.Smoothing, info.Unit); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func logSpectrum(logger *slog.Logger, bins []float64, sampleRate float64) {
	k, mag := spectrum.PeakBin(bins)
	if k < 0 {
		return
	}

	var db [1]float64
	spectrum.MagnitudeDB(db[:], []float64{mag}, -120)

	logger.Info("spectrum peak",
		"bin", k,
		"freq_hz", spectrum.BinFrequency(k, spectrum.DefaultFFTSize, sampleRate),
		"level_db", db[0])
}
