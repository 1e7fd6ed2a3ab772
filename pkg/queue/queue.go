// Package queue holds the bounded sample buffers that back streaming plots.
package queue

// Sample is the set of value types a Queue can hold.
type Sample interface {
	~float32 | ~complex64
}

// Queue keeps the most recent Cap() samples in arrival order, oldest first.
// It is not safe for concurrent use.
type Queue[V Sample] struct {
	buf      []V
	capacity int
}

type (
	Float   = Queue[float32]
	Complex = Queue[complex64]
)

// New returns an empty queue. A capacity of zero (or less) is legal and
// retains nothing.
func New[V Sample](capacity int) *Queue[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[V]{
		buf:      make([]V, 0, capacity),
		capacity: capacity,
	}
}

func NewFloat(capacity int) *Float {
	return New[float32](capacity)
}

func NewComplex(capacity int) *Complex {
	return New[complex64](capacity)
}

func (q *Queue[V]) Len() int {
	return len(q.buf)
}

func (q *Queue[V]) Cap() int {
	return q.capacity
}

// PushBatch appends values in order and then evicts the oldest entries until
// Len() <= Cap(). When the batch alone is longer than the capacity only its
// last Cap() values are kept.
func (q *Queue[V]) PushBatch(values []V) {
	if len(values) >= q.capacity {
		q.buf = q.buf[:q.capacity]
		copy(q.buf, values[len(values)-q.capacity:])
		return
	}

	evict := len(q.buf) + len(values) - q.capacity
	if evict > 0 {
		n := copy(q.buf, q.buf[evict:])
		q.buf = q.buf[:n]
	}
	q.buf = append(q.buf, values...)
}

// Values returns a copy of the queue contents, oldest first.
func (q *Queue[V]) Values() []V {
	ret := make([]V, len(q.buf))
	copy(ret, q.buf)
	return ret
}

// Each calls fn for every sample, oldest first.
func (q *Queue[V]) Each(fn func(i int, v V)) {
	for i, v := range q.buf {
		fn(i, v)
	}
}

// Reset drops every sample. Capacity is unchanged.
func (q *Queue[V]) Reset() {
	q.buf = q.buf[:0]
}
