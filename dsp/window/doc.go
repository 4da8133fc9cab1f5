// Package window generates the cosine-sum analysis windows used ahead of
// short-time Fourier analysis.
package window
