// Package delay provides integer-length circular delay lines and a feedback
// comb built on them.
package delay
