package wavetable

import "fmt"

// BankID selects one of the bundled wavetable banks.
type BankID int

const (
	// BankBasic holds sine, triangle, saw and square.
	BankBasic BankID = iota
	// BankHarmonic holds additive saws with 1..8 harmonics.
	BankHarmonic
	// BankPulse holds band-limited pulses of narrowing width.
	BankPulse
	// BankVocal holds vowel-like formant cycles.
	BankVocal

	bankCount
)

var bankNames = [bankCount]string{
	BankBasic:    "basic",
	BankHarmonic: "harmonic",
	BankPulse:    "pulse",
	BankVocal:    "vocal",
}

// Valid reports whether id names a known bank.
func (id BankID) Valid() bool {
	return id >= 0 && id < bankCount
}

func (id BankID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("BankID(%d)", int(id))
	}
	return bankNames[id]
}

// ParseBankID resolves a bank by name.
func ParseBankID(name string) (BankID, error) {
	for id, n := range bankNames {
		if n == name {
			return BankID(id), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBank, name)
}

// BankIDs returns every known bank in order.
func BankIDs() []BankID {
	ids := make([]BankID, bankCount)
	for i := range ids {
		ids[i] = BankID(i)
	}
	return ids
}
