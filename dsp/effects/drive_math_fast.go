//go:build fastmath

package effects

import "github.com/meko-christian/algo-approx"

// tanhLimit is where tanh is 1 to double precision; beyond it the
// exponential would only add error.
const tanhLimit = 19.0

// mathTanh computes tanh(x) using a fast exponential:
// tanh(x) = 1 - 2/(e^(2x) + 1)
func mathTanh(x float64) float64 {
	switch {
	case x > tanhLimit:
		return 1
	case x < -tanhLimit:
		return -1
	}
	return 1 - 2/(approx.FastExp(2*x)+1)
}
