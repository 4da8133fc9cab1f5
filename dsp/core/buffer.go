package core

import "math"

// PeakAbs returns the largest absolute value in buf.
func PeakAbs(buf []float64) float64 {
	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Decimate writes every step-th sample of src into dst so that at most
// len(dst) points cover the whole of src. It returns the number of points
// written. Used for display previews.
func Decimate(dst, src []float64) int {
	if len(dst) == 0 || len(src) == 0 {
		return 0
	}
	if len(src) <= len(dst) {
		return copy(dst, src)
	}

	step := float64(len(src)) / float64(len(dst))
	for i := range dst {
		dst[i] = src[int(float64(i)*step)]
	}
	return len(dst)
}
