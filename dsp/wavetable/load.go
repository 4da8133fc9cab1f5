package wavetable

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

//go:embed banks/*.wav
var bundled embed.FS

// LoadDefault loads the banks bundled with the package.
func LoadDefault() (*Store, error) {
	sub, err := fs.Sub(bundled, "banks")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads "<bank>.wav" for every bank from fsys. Every bank must be
// present and well formed.
func Load(fsys fs.FS) (*Store, error) {
	s := &Store{}
	for _, id := range BankIDs() {
		name := id.String() + ".wav"
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissingBank, id)
			}
			return nil, fmt.Errorf("read bank %s: %w", id, err)
		}

		tables, err := DecodeBank(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedBank, id, err)
		}
		s.banks[id] = tables
	}
	return s, nil
}

// DecodeBank decodes a mono integer PCM WAV stream into tables of
// TableLength samples each.
func DecodeBank(r io.ReadSeeker) ([][]float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, err
	}

	format := dec.Format()
	if format == nil || format.NumChannels != 1 {
		return nil, errors.New("bank must be mono")
	}

	bitDepth := int(dec.SampleBitDepth())
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	bytesPerSample := bitDepth / 8
	nsamples := int(dec.PCMLen()) / bytesPerSample
	if nsamples == 0 || nsamples%TableLength != 0 {
		return nil, fmt.Errorf("sample count %d is not a positive multiple of %d", nsamples, TableLength)
	}

	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, nsamples),
		SourceBitDepth: bitDepth,
	}
	n, err := dec.PCMBuffer(buf)
	if err != nil {
		return nil, err
	}
	if n != nsamples {
		return nil, fmt.Errorf("short read: %d of %d samples", n, nsamples)
	}

	factor := math.Pow(2, float64(bitDepth-1))
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	tables := make([][]float64, nsamples/TableLength)
	for i := range tables {
		t := make([]float64, TableLength)
		for j := range t {
			t[j] = float64(buf.Data[i*TableLength+j]-offset) / factor
		}
		tables[i] = t
	}
	return tables, nil
}

// EncodeBank writes tables as a mono 16-bit WAV stream.
func EncodeBank(w io.WriteSeeker, tables [][]float64, sampleRate int) error {
	if err := validateTables(tables); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBank, err)
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, 0, len(tables)*TableLength),
		SourceBitDepth: 16,
	}
	for _, t := range tables {
		for _, v := range t {
			buf.Data = append(buf.Data, int(math.Round(math.Max(-1, math.Min(1, v))*32767)))
		}
	}

	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
