// Package spectrum provides a short-time Fourier magnitude analyzer and a few
// helpers for working with magnitude spectra.
//
// [Analyzer] collects samples in a ring, and every hop windows the latest
// frame, zero-pads it and runs a forward FFT through algo-fft. Magnitudes are
// computed with algo-vecmath kernels and scaled by the inverse FFT length.
package spectrum
