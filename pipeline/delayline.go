package pipeline

// DelayLine is a fixed-depth FIFO re-timing a stream by exactly Depth ticks:
// the value inserted by Shift at tick t is returned by the Shift of tick t+Depth.
// Every slot carries a valid bit so that fill and drain can be observed.
// A DelayLine of depth zero is a wire.
type DelayLine[T any] struct {
	buf     []T
	valid   []bool
	head    int
	pending int
}

// NewDelayLine allocates a [DelayLine] of the given depth.
func NewDelayLine[T any](depth int) *DelayLine[T] {
	if depth < 0 {
		panic("cannot NewDelayLine: depth must be non-negative")
	}
	return &DelayLine[T]{
		buf:   make([]T, depth),
		valid: make([]bool, depth),
	}
}

// Depth returns the number of ticks between insertion and eviction.
func (d *DelayLine[T]) Depth() int {
	return len(d.buf)
}

// Pending returns the number of valid entries still held by the line.
func (d *DelayLine[T]) Pending() int {
	return d.pending
}

// Reset clears every slot.
func (d *DelayLine[T]) Reset() {
	var zero T
	for i := range d.buf {
		d.buf[i] = zero
		d.valid[i] = false
	}
	d.head = 0
	d.pending = 0
}

// Shift inserts v and evicts the oldest entry.
func (d *DelayLine[T]) Shift(v T, ok bool) (out T, outOK bool) {

	if len(d.buf) == 0 {
		return v, ok
	}

	out, outOK = d.buf[d.head], d.valid[d.head]
	d.buf[d.head], d.valid[d.head] = v, ok

	if outOK {
		d.pending--
	}
	if ok {
		d.pending++
	}

	if d.head++; d.head == len(d.buf) {
		d.head = 0
	}

	return
}
