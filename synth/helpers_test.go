package synth

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

// constantStore returns a store whose tables are constant, so oscillator
// output equals the morph mix of the table values.
func constantStore(t testing.TB) *wavetable.Store {
	t.Helper()

	store, err := wavetable.NewStore(map[wavetable.BankID][][]float64{
		wavetable.BankBasic:    testutil.ConstantTables(wavetable.TableLength, 0, 1),
		wavetable.BankHarmonic: testutil.ConstantTables(wavetable.TableLength, 2, 3),
		wavetable.BankPulse:    testutil.ConstantTables(wavetable.TableLength, 4),
		wavetable.BankVocal:    testutil.ConstantTables(wavetable.TableLength, 5, 6, 7),
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	return store
}

func defaultStore(t testing.TB) *wavetable.Store {
	t.Helper()

	store, err := wavetable.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	return store
}

func newTestSynth(t testing.TB, store *wavetable.Store, opts ...Option) *Synth {
	t.Helper()

	s, err := New(store, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s
}
