package main

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/buffer"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/go-audio/wav"
)

func TestParseNotes(t *testing.T) {
	tests := []struct {
		in      string
		want    []uint8
		wantErr bool
	}{
		{in: "60,64,67", want: []uint8{60, 64, 67}},
		{in: " 0 , 127 ", want: []uint8{0, 127}},
		{in: "69,", want: []uint8{69}},
		{in: "", wantErr: true},
		{in: "128", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "c4", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseNotes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseNotes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}

		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Fatalf("parseNotes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParamSettings(t *testing.T) {
	settings := paramSettings{}

	if err := settings.Set("filter-cutoff=800"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := settings.Set("reverb-volume = 0.5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	for _, bad := range []string{"filter-cutoff", "nope=1", "gain=loud"} {
		if err := settings.Set(bad); err == nil {
			t.Fatalf("Set(%q) expected error", bad)
		}
	}

	if got, want := settings.String(), "filter-cutoff=800,reverb-volume=0.5"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	params := synth.NewParams()
	settings.apply(params)

	if got := params.Plain(synth.ParamFilterCutoff); got != 800 {
		t.Fatalf("cutoff = %v, want 800", got)
	}

	if params.IsSmoothing(synth.ParamReverbVolume) {
		t.Fatal("applied settings should jump, not ramp")
	}
}

func TestSchedule(t *testing.T) {
	events := schedule([]uint8{60, 64}, 0.5, 100, 150)

	want := []struct {
		frame int
		kind  synth.EventKind
		note  uint8
	}{
		{0, synth.EventNoteOn, 60},
		{100, synth.EventNoteOn, 64},
		{150, synth.EventNoteOff, 60},
		{150, synth.EventNoteOff, 64},
	}

	if len(events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(events), len(want))
	}

	for i, w := range want {
		e := events[i]
		if e.frame != w.frame || e.event.Kind != w.kind || e.event.Note != w.note {
			t.Fatalf("events[%d] = {%d %v %d}, want {%d %v %d}",
				i, e.frame, e.event.Kind, e.event.Note, w.frame, w.kind, w.note)
		}
	}
}

func TestScheduleReleaseAfterLateStart(t *testing.T) {
	events := schedule([]uint8{60, 64}, 1, 200, 50)

	last := events[len(events)-1]
	if last.event.Kind != synth.EventNoteOff || last.event.Note != 64 || last.frame != 201 {
		t.Fatalf("last event = {%d %v %d}, want release of 64 at 201",
			last.frame, last.event.Kind, last.event.Note)
	}

	for i := 1; i < len(events); i++ {
		if events[i].frame < events[i-1].frame {
			t.Fatalf("events not ordered at %d", i)
		}
	}
}

func TestRender(t *testing.T) {
	store, err := wavetable.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	s, err := synth.New(store, synth.WithBlockSize(64))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := render(s, schedule([]uint8{69}, 1, 0, 100), 2000, 64)

	if out.Frames() != 2000 {
		t.Fatalf("Frames() = %d, want 2000", out.Frames())
	}

	if out.Peak() == 0 {
		t.Fatal("rendering is silent")
	}

	for i := range out.Frames() {
		if !core.IsFinite(out.Left()[i]) || !core.IsFinite(out.Right()[i]) {
			t.Fatalf("non-finite sample at %d", i)
		}
	}

	if s.ActiveVoices() != 0 {
		t.Fatalf("ActiveVoices() = %d, want 0 after release", s.ActiveVoices())
	}
}

func TestNormalizePeak(t *testing.T) {
	out := buffer.New(3)
	copy(out.Left(), []float64{0.1, -0.25, 0})
	copy(out.Right(), []float64{0.05, 0.2, -0.1})

	gain := normalizePeak(out, -6)
	want := core.DBToLinear(-6)

	if math.Abs(gain-want/0.25) > 1e-12 {
		t.Fatalf("gain = %v, want %v", gain, want/0.25)
	}

	if math.Abs(out.Peak()-want) > 1e-12 {
		t.Fatalf("Peak() = %v, want %v", out.Peak(), want)
	}

	if math.Abs(out.Right()[0]-0.05*gain) > 1e-12 {
		t.Fatalf("right[0] = %v, want %v", out.Right()[0], 0.05*gain)
	}

	silent := buffer.New(4)
	if gain := normalizePeak(silent, -1); gain != 1 || silent.Peak() != 0 {
		t.Fatalf("silent gain = %v, peak = %v", gain, silent.Peak())
	}
}

func TestWriteWAV(t *testing.T) {
	out := buffer.New(3)
	copy(out.Left(), []float64{0.5, 0, 2})
	copy(out.Right(), []float64{-0.5, 0, -2})

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := saveWAV(path, out, 48000, 16); err != nil {
		t.Fatalf("saveWAV() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}

	if dec.NumChans != 2 || dec.SampleRate != 48000 || dec.BitDepth != 16 {
		t.Fatalf("format = %d ch %d Hz %d bit", dec.NumChans, dec.SampleRate, dec.BitDepth)
	}

	want := []int{16383, -16383, 0, 0, 32767, -32767}
	if !slices.Equal(buf.Data, want) {
		t.Fatalf("Data = %v, want %v", buf.Data, want)
	}
}

func TestWriteWAVRejectsBitDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := saveWAV(path, buffer.New(1), 48000, 12); err == nil {
		t.Fatal("expected error for 12-bit output")
	}
}

func TestWriteBanks(t *testing.T) {
	store, err := wavetable.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	dir := t.TempDir()
	if err := writeBanks(store, dir, 48000); err != nil {
		t.Fatalf("writeBanks() error = %v", err)
	}

	reloaded, err := wavetable.Load(os.DirFS(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, id := range wavetable.BankIDs() {
		if got, want := reloaded.Tables(id), store.Tables(id); got != want {
			t.Fatalf("bank %s: %d tables, want %d", id, got, want)
		}
	}
}

func TestFloat32Reader(t *testing.T) {
	out := buffer.New(2)
	copy(out.Left(), []float64{0.25, 1})
	copy(out.Right(), []float64{-0.25, -1})

	data, err := io.ReadAll(newFloat32Reader(out))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(data) != 16 {
		t.Fatalf("len = %d, want 16", len(data))
	}

	want := []float32{0.25, -0.25, 1, -1}
	for i, w := range want {
		bits := uint32(data[4*i]) | uint32(data[4*i+1])<<8 | uint32(data[4*i+2])<<16 | uint32(data[4*i+3])<<24
		if got := math.Float32frombits(bits); got != w {
			t.Fatalf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestFloat32ReaderEOF(t *testing.T) {
	r := newFloat32Reader(buffer.New(0))

	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Fatalf("Read() error = %v, want EOF", err)
	}
}

func TestPrintParams(t *testing.T) {
	var buf bytes.Buffer
	if err := printParams(&buf); err != nil {
		t.Fatalf("printParams() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(synth.ParamIDs())+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(synth.ParamIDs())+1)
	}

	if !strings.Contains(buf.String(), "filter-cutoff") {
		t.Fatal("missing filter-cutoff row")
	}
}
