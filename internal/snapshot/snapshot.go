// Package snapshot provides a wait-free triple buffer for handing fixed-size
// frames from one producer goroutine to one consumer goroutine.
package snapshot

import "sync/atomic"

const (
	indexMask = 0b011
	freshBit  = 0b100
)

// Buffer is a triple buffer of frames of up to Capacity elements.
//
// The producer owns one slot, the consumer owns another and the third is
// exchanged through a single atomic word that also carries a fresh flag.
// Publish and Read never block and never allocate. A Buffer must have at most
// one publishing and one reading goroutine.
type Buffer[T any] struct {
	frames [3][]T
	sizes  [3]int

	state atomic.Uint32

	write uint32
	read  uint32
}

// New returns a buffer whose frames hold up to capacity elements.
func New[T any](capacity int) *Buffer[T] {
	capacity = max(capacity, 0)

	b := &Buffer[T]{write: 0, read: 1}
	for i := range b.frames {
		b.frames[i] = make([]T, capacity)
	}

	b.state.Store(2)

	return b
}

// Capacity returns the maximum frame length.
func (b *Buffer[T]) Capacity() int { return len(b.frames[0]) }

// Publish copies src into the producer slot and makes it the most recent
// frame. Elements beyond Capacity are dropped.
func (b *Buffer[T]) Publish(src []T) {
	n := copy(b.frames[b.write], src)
	b.sizes[b.write] = n

	prev := b.state.Swap(b.write | freshBit)
	b.write = prev & indexMask
}

// Read returns the most recently published frame. The slice stays valid
// until the next call to Read. Before the first Publish it is empty.
func (b *Buffer[T]) Read() []T {
	if b.state.Load()&freshBit != 0 {
		prev := b.state.Swap(b.read)
		b.read = prev & indexMask
	}

	return b.frames[b.read][:b.sizes[b.read]]
}

// Fresh reports whether a frame was published since the last Read.
func (b *Buffer[T]) Fresh() bool {
	return b.state.Load()&freshBit != 0
}
