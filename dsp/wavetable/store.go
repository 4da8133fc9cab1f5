package wavetable

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// TableLength is the number of samples in every waveform table.
const TableLength = 4096

// Store is an immutable collection of wavetable banks. It is built once and
// shared by pointer between all oscillators.
type Store struct {
	banks [bankCount][][]float64
}

// NewStore builds a store from in-memory tables. Every table must hold
// exactly TableLength finite samples and every listed bank at least one
// table. Banks that are not listed stay missing. The input is copied.
func NewStore(banks map[BankID][][]float64) (*Store, error) {
	s := &Store{}
	for id, tables := range banks {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownBank, int(id))
		}
		if err := validateTables(tables); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedBank, id, err)
		}

		cp := make([][]float64, len(tables))
		for i, t := range tables {
			cp[i] = append([]float64(nil), t...)
		}
		s.banks[id] = cp
	}
	return s, nil
}

// Bank returns the tables of a bank. The returned slices must not be
// modified.
func (s *Store) Bank(id BankID) ([][]float64, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBank, int(id))
	}
	tables := s.banks[id]
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingBank, id)
	}
	return tables, nil
}

// Tables returns the number of tables in a bank, 0 if it is missing.
func (s *Store) Tables(id BankID) int {
	if !id.Valid() {
		return 0
	}
	return len(s.banks[id])
}

func validateTables(tables [][]float64) error {
	if len(tables) == 0 {
		return errors.New("no tables")
	}
	for i, t := range tables {
		if len(t) != TableLength {
			return fmt.Errorf("table %d has %d samples, want %d", i, len(t), TableLength)
		}
		for j, v := range t {
			if !core.IsFinite(v) {
				return fmt.Errorf("table %d sample %d is not finite: %v", i, j, v)
			}
		}
	}
	return nil
}
