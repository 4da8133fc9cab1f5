package core

import "testing"

func TestPeakAbs(t *testing.T) {
	if got := PeakAbs([]float64{0.1, -0.8, 0.5}); got != 0.8 {
		t.Fatalf("PeakAbs() = %v, want 0.8", got)
	}
	if got := PeakAbs(nil); got != 0 {
		t.Fatalf("PeakAbs(nil) = %v, want 0", got)
	}
}

func TestDecimate(t *testing.T) {
	src := make([]float64, 1000)
	for i := range src {
		src[i] = float64(i)
	}

	dst := make([]float64, 100)
	n := Decimate(dst, src)
	if n != 100 {
		t.Fatalf("n = %d, want 100", n)
	}
	if dst[0] != 0 || dst[1] != 10 || dst[99] != 990 {
		t.Fatalf("unexpected decimation: %v %v %v", dst[0], dst[1], dst[99])
	}

	short := Decimate(dst, src[:5])
	if short != 5 {
		t.Fatalf("short n = %d, want 5", short)
	}
}
