package spectrum

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// All three slices must have the same length. dst may alias re or im.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}


// MagnitudeDB converts linear magnitudes to decibels into dst.
// Values below floorDB (including zero) are reported as floorDB.
func MagnitudeDB(dst, mag []float64, floorDB float64) {
	n := min(len(dst), len(mag))
	floor := core.DBToLinear(floorDB)

	for i := range n {
		if mag[i] <= floor {
			dst[i] = floorDB
			continue
		}

		dst[i] = core.LinearToDB(mag[i])
	}
}

// BinFrequency returns the center frequency of bin k for an fftSize-point
// transform at sampleRate.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(k) * sampleRate / float64(fftSize)
}

// PeakBin returns the index and value of the largest magnitude. It returns
// -1 for an empty slice.
func PeakBin(mag []float64) (int, float64) {
	peak := -1
	best := math.Inf(-1)

	for i, v := range mag {
		if v > best {
			peak = i
			best = v
		}
	}

	if peak < 0 {
		return -1, 0
	}

	return peak, best
}
