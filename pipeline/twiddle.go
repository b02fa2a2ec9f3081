package pipeline

import (
	"fmt"
)

// TwiddleTable is the read-only table of powers of the 2N-th root of unity,
// in bit-reversed order and Montgomery form.
type TwiddleTable struct {
	roots []uint64
}

// NewTwiddleTable wraps roots, which must be indexed as RootsForward of a
// [ring.Ring].
func NewTwiddleTable(roots []uint64) TwiddleTable {
	return TwiddleTable{roots: roots}
}

// Len returns the number of entries of the table.
func (t TwiddleTable) Len() int {
	return len(t.roots)
}

// Twiddles returns the entries of the table at idx. For width 2 only the
// first two indices are looked up and duplicated into the last two slots.
func (t TwiddleTable) Twiddles(idx [Banks]int, width int) (w [Banks]uint64) {

	if debugAssertions {
		for i := 0; i < width; i++ {
			if idx[i] < 1 || idx[i] >= len(t.roots) {
				panic(fmt.Errorf("twiddle index %d out of range [1, %d)", idx[i], len(t.roots)))
			}
		}
	}

	switch width {
	case 2:
		w[0], w[1] = t.roots[idx[0]], t.roots[idx[1]]
		w[2], w[3] = w[0], w[1]
	default:
		for i := range w {
			w[i] = t.roots[idx[i]]
		}
	}

	return
}

// TwiddleResolver computes the twiddle table indices consumed by the
// butterfly for the row issued at a given value of the k counter.
//
// Consecutive rows of a pass mostly share their twiddle row: the resolver
// keeps the key of the last row and the indices of its lane 0 and only
// recomputes them from scratch when the key does not simply increment.
type TwiddleResolver struct {
	phase Phase
	rows  int

	last int
	base [Banks]int
	step [Banks]int

	reseeds  int
	advances int
}

// NewTwiddleResolver returns a [TwiddleResolver] for a store of the given
// number of rows.
func NewTwiddleResolver(rows int) *TwiddleResolver {
	return &TwiddleResolver{rows: rows, last: -1}
}

// Reset prepares the receiver for a new pass of the given phase.
func (tr *TwiddleResolver) Reset(p Phase) {
	tr.phase = p
	tr.last = -1
	tr.base = [Banks]int{}
	tr.reseeds = 0
	tr.advances = 0

	switch p.Mode() {
	case ModeBypass:
		tr.step = [Banks]int{1, 1, 1, 1}
	default:
		tr.step = [Banks]int{1, 1, 2, 2}
	}
}

// Reseeds returns the number of times the indices were recomputed from
// the stage since the last [TwiddleResolver.Reset].
func (tr *TwiddleResolver) Reseeds() int {
	return tr.reseeds
}

// Advances returns the number of incremental row changes since the last
// [TwiddleResolver.Reset].
func (tr *TwiddleResolver) Advances() int {
	return tr.advances
}

// Resolve returns the table indices of the butterfly fed by the row issued
// with counter value k.
func (tr *TwiddleResolver) Resolve(k int) (idx [Banks]int) {

	l := tr.phase.Stage()
	s := tr.phase.Distance()

	var key, offset int

	switch tr.phase.Mode() {
	case ModeBypass:
		// Row pair k>>1, lanes 2c and 2c+1 with c = k&1.
		key = k >> 1
		offset = (k & 1) * tr.rows
	default:
		if l != 0 {
			// Twiddle row k>>(s+2), lane (k>>s)&3.
			key = k >> (s + 2)
			offset = ((k >> s) & 3) << (l - 2)
		}
	}

	switch key {
	case tr.last:
	case tr.last + 1:
		if tr.last >= 0 {
			for i := range tr.base {
				tr.base[i] += tr.step[i]
			}
			tr.advances++
			break
		}
		fallthrough
	default:
		tr.base = tr.seed(l, key)
		tr.reseeds++
	}

	tr.last = key

	switch tr.phase.Mode() {
	case ModeBypass:
		for i := range idx {
			idx[i] = tr.base[i] + offset
		}
	default:
		idx[0] = tr.base[0] + offset
		idx[1] = tr.base[1] + offset
		idx[2] = tr.base[2] + 2*offset
		idx[3] = tr.base[3] + 2*offset
	}

	return
}

func (tr *TwiddleResolver) seed(l, key int) [Banks]int {
	m := 1 << l
	if tr.phase.Mode() == ModeBypass {
		return [Banks]int{m + key, m + tr.rows>>1 + key, m + key, m + tr.rows>>1 + key}
	}
	return [Banks]int{m + key, m + key, 2*m + 2*key, 2*m + 2*key + 1}
}
