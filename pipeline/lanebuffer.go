package pipeline

// Banks is the number of parallel memory banks, i.e. the number of
// coefficients held by one row of the store.
const Banks = 4

// View describes how the Banks elements exchanged at one tick are laid out
// in a block of width rows: element i of slot c lives at cell(c, i).
type View int

const (
	// RowView exchanges whole rows: slot c is row c of the block.
	RowView View = iota
	// ColumnView exchanges the bank c of the four rows of the block.
	ColumnView
	// PairView exchanges the banks 2c and 2c+1 of the two rows of the block,
	// ordered as (row 0, row 1) for each bank.
	PairView
)

func (v View) fits(width int) bool {
	switch v {
	case ColumnView:
		return width == Banks
	case PairView:
		return width == 2
	default:
		return true
	}
}

func (v View) cell(c, i int) (row, bank int) {
	switch v {
	case ColumnView:
		return i, c
	case PairView:
		return i & 1, 2*c + i>>1
	default:
		return c, i
	}
}

// LaneBuffer is a double-buffered block of width x Banks registers driven by
// a rolling counter. At slot c of each block it writes the incoming vector
// into the filling bank with the input view and emits slot c of the full bank
// with the output view; the banks swap when the counter wraps.
// Each element therefore leaves exactly one block (width ticks) after the
// block it entered with, possibly in another lane.
type LaneBuffer struct {
	width   int
	in, out View
	count   int
	wr      int
	cells   [2][Banks][Banks]uint64
	valid   [2][Banks][Banks]bool
	pending int
}

// NewLaneBuffer allocates a [LaneBuffer] of the given block width (2 or 4).
func NewLaneBuffer(width int) *LaneBuffer {
	if width != 2 && width != Banks {
		panic("cannot NewLaneBuffer: width must be 2 or 4")
	}
	return &LaneBuffer{width: width}
}

// Width returns the block width of the receiver.
func (lb *LaneBuffer) Width() int {
	return lb.width
}

// Pending returns the number of valid elements not yet emitted.
func (lb *LaneBuffer) Pending() int {
	return lb.pending
}

// Count returns the current value of the rolling counter.
func (lb *LaneBuffer) Count() int {
	return lb.count
}

// Reset clears the receiver, sets the views and starts the rolling
// counter at offset (mod width).
func (lb *LaneBuffer) Reset(in, out View, offset int) {
	if !in.fits(lb.width) || !out.fits(lb.width) {
		panic("cannot Reset: view does not match the block width")
	}
	*lb = LaneBuffer{
		width: lb.width,
		in:    in,
		out:   out,
		count: ((offset % lb.width) + lb.width) % lb.width,
	}
}

// Push advances the receiver by one tick.
func (lb *LaneBuffer) Push(v [Banks]uint64, ok bool) (out [Banks]uint64, outOK bool) {

	rd := lb.wr ^ 1

	outOK = true
	for i := 0; i < Banks; i++ {
		r, b := lb.out.cell(lb.count, i)
		out[i] = lb.cells[rd][r][b]
		if lb.valid[rd][r][b] {
			lb.valid[rd][r][b] = false
			lb.pending--
		} else {
			outOK = false
		}
	}

	for i := 0; i < Banks; i++ {
		r, b := lb.in.cell(lb.count, i)
		if lb.valid[lb.wr][r][b] {
			lb.pending--
		}
		lb.cells[lb.wr][r][b] = v[i]
		lb.valid[lb.wr][r][b] = ok
		if ok {
			lb.pending++
		}
	}

	if lb.count++; lb.count == lb.width {
		lb.count = 0
		lb.wr = rd
	}

	return
}
