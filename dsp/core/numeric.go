package core

import "math"

const defaultEpsilon = 1e-12

// MinFrequency is the lowest frequency in Hz an oscillator or filter is
// allowed to run at. Zero and negative requests are raised to it.
const MinFrequency = 1e-3

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Lerp blends linearly from a (t=0) to b (t=1).
//
// The endpoints are exact: Lerp(a, b, 0) == a and Lerp(a, b, 1) == b.
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Feedback paths (delay lines, IIR state) call it to keep decaying tails
// from dropping into the denormal range.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// SanitizeFrequency returns freq clamped into [MinFrequency, maxFreq].
// Non-finite input maps to MinFrequency.
func SanitizeFrequency(freq, maxFreq float64) float64 {
	if !IsFinite(freq) || freq < MinFrequency {
		return MinFrequency
	}

	if maxFreq > MinFrequency && freq > maxFreq {
		return maxFreq
	}

	return freq
}
