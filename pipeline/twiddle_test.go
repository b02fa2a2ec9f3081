package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/ntt2x2/ring"
)

// referenceTwiddleIndices returns the table indices of the butterfly
// processing, during phase p, the lane slot of the block containing the
// logical row row, computed from the coefficient index of the butterfly's
// first input.
func referenceTwiddleIndices(p Phase, logN, row, slot int) (idx [Banks]int) {

	l := p.Stage()
	R := 1 << (logN - 2)
	m := 1 << l

	switch p.Mode() {
	case ModeBypass:
		x0 := (2*slot)*R + row
		x1 := (2*slot+1)*R + row
		idx[0], idx[1] = m+x0>>1, m+x1>>1
		idx[2], idx[3] = idx[0], idx[1]
	default:
		lane := slot
		if l == 0 {
			lane = 0
		}
		g := (lane*R + row) >> (logN - l)
		idx = [Banks]int{m + g, m + g, 2*m + 2*g, 2*m + 2*g + 1}
	}

	return
}

func TestTwiddleResolver(t *testing.T) {

	for logN := MinLogN; logN <= MaxLogN; logN++ {

		pattern, err := StagePattern(logN)
		require.NoError(t, err)

		R := 1 << (logN - 2)

		for _, p := range phases(logN, pattern) {

			t.Run(fmt.Sprintf("Incremental/LogN=%d/%s", logN, p), func(t *testing.T) {

				tr := NewTwiddleResolver(R)
				tr.Reset(p)

				var st schedulerState
				for tick := 0; tick < R; tick++ {
					row := st.k + st.j
					have := tr.Resolve(st.k)
					require.Equal(t, referenceTwiddleIndices(p, logN, row, tick%p.Width()), have, "tick %d", tick)
					st.advance(p.Distance(), R)
				}

				s := p.Distance()
				switch {
				case p.Mode() == ModeBypass:
					require.Equal(t, 1, tr.Reseeds())
					require.Equal(t, R/2-1, tr.Advances())
				case p.Stage() == 0:
					require.Equal(t, 1, tr.Reseeds())
					require.Equal(t, 0, tr.Advances())
				case R>>(s+2) == 1:
					// A single twiddle row per sweep is never left.
					require.Equal(t, 1, tr.Reseeds())
					require.Equal(t, 0, tr.Advances())
				default:
					require.Equal(t, 1<<s, tr.Reseeds())
					require.Equal(t, (1<<s)*(R>>(s+2)-1), tr.Advances())
				}
			})
		}
	}

	t.Run("Reseed", func(t *testing.T) {
		// Jumping over a twiddle row reseeds instead of advancing.
		logN := 9
		p := NewMergedStage(4, 3)
		tr := NewTwiddleResolver(1 << (logN - 2))
		tr.Reset(p)
		tr.Resolve(0)
		require.Equal(t, referenceTwiddleIndices(p, logN, 3<<5, 0), tr.Resolve(3<<5))
		require.Equal(t, 2, tr.Reseeds())
		require.Equal(t, 0, tr.Advances())
	})
}

func TestTwiddleTable(t *testing.T) {

	r, err := ring.NewRing(1<<5, ring.FalconModulus)
	require.NoError(t, err)

	table := NewTwiddleTable(r.RootsForward)
	require.Equal(t, r.N, table.Len())

	w := table.Twiddles([Banks]int{1, 2, 3, 4}, Banks)
	require.Equal(t, [Banks]uint64{r.RootsForward[1], r.RootsForward[2], r.RootsForward[3], r.RootsForward[4]}, w)

	w = table.Twiddles([Banks]int{5, 6, 0, 0}, 2)
	require.Equal(t, [Banks]uint64{r.RootsForward[5], r.RootsForward[6], r.RootsForward[5], r.RootsForward[6]}, w)
}
