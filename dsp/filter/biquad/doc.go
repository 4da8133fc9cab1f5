// Package biquad provides the second-order IIR filter runtime.
//
// A [Section] implements Direct Form II Transposed processing for a single
// section defined by [Coefficients]. Coefficients can be swapped between
// samples while the state carries over, which is how modulated filters are
// driven. Coefficient design lives in dsp/filter/design.
package biquad
