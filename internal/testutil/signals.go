package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of amplitude·sin(2π·f·n/sr).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// drawn from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos. Out-of-range positions give silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Ones returns n samples of 1.
func Ones(n int) []float64 {
	return DC(1, n)
}

// Ramp returns n samples rising linearly from 0 to 1 exclusive, the shape of
// a single sawtooth cycle. Table lookups on a ramp reveal the read index.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	for i := range out {
		out[i] = float64(i) / float64(n)
	}

	return out
}

// ConstantTables returns one table of the given length per value, each
// filled with that value. Morph mixes between them are easy to predict.
func ConstantTables(length int, values ...float64) [][]float64 {
	tables := make([][]float64, len(values))
	for i, v := range values {
		tables[i] = DC(v, length)
	}

	return tables
}
