// Package tape provides a bounded ring buffer that drops the oldest entry
// once full.
package tape

import "sync"

// Tape is a fixed-capacity ring buffer safe for concurrent use.
type Tape[T any] struct {
	mu    sync.RWMutex
	buf   []T
	size  int
	start int
	count int
}

// New creates a Tape with the given capacity.
func New[T any](capacity int) *Tape[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &Tape[T]{
		buf:  make([]T, capacity),
		size: capacity,
	}
}

// Push appends an item, overwriting the oldest when the tape is full.
func (t *Tape[T]) Push(item T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count < t.size {
		t.buf[(t.start+t.count)%t.size] = item
		t.count++
		return
	}
	// overwrite oldest
	t.buf[t.start] = item
	t.start = (t.start + 1) % t.size
}

// Latest returns the last n items in chronological order (oldest first).
func (t *Tape[T]) Latest(n int) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || t.count == 0 {
		return nil
	}
	if n > t.count {
		n = t.count
	}

	out := make([]T, n)
	first := (t.start + (t.count - n)) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(first+i)%t.size]
	}
	return out
}

// All returns every retained item, oldest first.
func (t *Tape[T]) All() []T {
	return t.Latest(t.Cap())
}

// Len returns the number of retained items.
func (t *Tape[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Cap returns the capacity.
func (t *Tape[T]) Cap() int {
	return t.size
}

// Clear drops every item.
func (t *Tape[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	for i := range t.buf {
		t.buf[i] = zero
	}
	t.start, t.count = 0, 0
}
