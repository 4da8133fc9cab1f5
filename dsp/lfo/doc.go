// Package lfo provides the shared low-frequency modulation source.
package lfo
