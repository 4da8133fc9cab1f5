// Package wavetable holds the immutable wavetable Store and the morphing
// wavetable Oscillator that reads it.
//
// A Store is loaded once, either from the banks bundled with the package
// ([LoadDefault]) or from any filesystem ([Load]), and then shared between
// every oscillator. Each bank is an ordered list of single-cycle tables of
// [TableLength] samples; the oscillator's morph position crossfades between
// two neighbouring tables.
package wavetable
