package wavetable

import "errors"

var (
	// ErrUnknownBank is returned for a bank id outside the known set.
	ErrUnknownBank = errors.New("wavetable: unknown bank")
	// ErrMissingBank is returned when a bank has no data.
	ErrMissingBank = errors.New("wavetable: missing bank")
	// ErrMalformedBank is returned when bank data cannot be decoded or has
	// the wrong shape.
	ErrMalformedBank = errors.New("wavetable: malformed bank")
)
