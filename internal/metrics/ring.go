package metrics

// Ring is a fixed-capacity FIFO buffer. Once full, each Push overwrites
// the oldest element.
type Ring[T any] struct {
	data []T
	pos  int
	full bool
}

// NewRing creates a Ring holding at most capacity elements. A capacity
// below one is raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{data: make([]T, max(capacity, 1))}
}

func (r *Ring[T]) Push(v T) {
	r.data[r.pos] = v
	r.pos++
	if r.pos == len(r.data) {
		r.pos = 0
		r.full = true
	}
}

func (r *Ring[T]) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

func (r *Ring[T]) Cap() int { return len(r.data) }

// Last returns the newest element.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.Len() == 0 {
		return zero, false
	}
	i := r.pos - 1
	if i < 0 {
		i = len(r.data) - 1
	}
	return r.data[i], true
}

// Slice returns a copy of the contents, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.Len())
	if r.full {
		n := copy(out, r.data[r.pos:])
		copy(out[n:], r.data[:r.pos])
	} else {
		copy(out, r.data[:r.pos])
	}
	return out
}

// Do calls fn on every element, oldest first, without copying.
func (r *Ring[T]) Do(fn func(T)) {
	if r.full {
		for _, v := range r.data[r.pos:] {
			fn(v)
		}
	}
	for _, v := range r.data[:r.pos] {
		fn(v)
	}
}

func (r *Ring[T]) Clear() {
	clear(r.data)
	r.pos = 0
	r.full = false
}
