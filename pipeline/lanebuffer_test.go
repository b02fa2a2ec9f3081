package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// blockRow returns the row c of block b, whose element i is 100*b+10*c+i.
func blockRow(b, c int) (row [Banks]uint64) {
	for i := range row {
		row[i] = uint64(100*b + 10*c + i)
	}
	return
}

func TestLaneBuffer(t *testing.T) {

	for _, tc := range []struct {
		width   int
		view    View
		expects func(b, c int) [Banks]uint64
	}{
		{Banks, RowView, blockRow},
		{2, RowView, blockRow},
		{Banks, ColumnView, func(b, c int) (out [Banks]uint64) {
			for i := range out {
				out[i] = blockRow(b, i)[c]
			}
			return
		}},
		{2, PairView, func(b, c int) [Banks]uint64 {
			r0, r1 := blockRow(b, 0), blockRow(b, 1)
			return [Banks]uint64{r0[2*c], r1[2*c], r0[2*c+1], r1[2*c+1]}
		}},
	} {

		for offset := 0; offset < 3; offset++ {

			t.Run(fmt.Sprintf("Width=%d/View=%d/Offset=%d", tc.width, tc.view, offset), func(t *testing.T) {

				lb := NewLaneBuffer(tc.width)
				lb.Reset(RowView, tc.view, -offset)

				w := tc.width
				start := (w - ((-offset%w)+w)%w) % w // first tick with counter 0
				blocks := 3

				var tick int

				// Idle ticks until the counter reaches 0.
				for ; tick < start; tick++ {
					_, ok := lb.Push([Banks]uint64{}, false)
					require.False(t, ok)
				}

				for b := 0; b < blocks+1; b++ {
					for c := 0; c < w; c++ {

						require.Equal(t, c, lb.Count())

						in, inOK := [Banks]uint64{}, false
						if b < blocks {
							in, inOK = blockRow(b, c), true
						}

						out, ok := lb.Push(in, inOK)

						if b == 0 {
							require.False(t, ok)
						} else {
							require.True(t, ok)
							require.Equal(t, tc.expects(b-1, c), out)
						}
					}
				}

				require.Zero(t, lb.Pending())
			})
		}
	}

	t.Run("InverseViews", func(t *testing.T) {

		for _, tc := range []struct {
			width int
			view  View
		}{
			{Banks, ColumnView},
			{2, PairView},
		} {
			gather := NewLaneBuffer(tc.width)
			scatter := NewLaneBuffer(tc.width)
			gather.Reset(RowView, tc.view, 0)
			scatter.Reset(tc.view, RowView, 0)

			w := tc.width
			for tick := 0; tick < 4*w; tick++ {
				b, c := tick/w, tick%w
				in, inOK := blockRow(b, c), b < 2
				out, ok := scatter.Push(gather.Push(in, inOK))
				if b >= 2 && b < 4 {
					require.True(t, ok)
					require.Equal(t, blockRow(b-2, c), out)
				}
			}

			require.Zero(t, gather.Pending())
			require.Zero(t, scatter.Pending())
		}
	})

	t.Run("InvalidWidth", func(t *testing.T) {
		require.Panics(t, func() { NewLaneBuffer(3) })
		require.Panics(t, func() { NewLaneBuffer(2).Reset(RowView, ColumnView, 0) })
		require.Panics(t, func() { NewLaneBuffer(Banks).Reset(PairView, RowView, 0) })
	})
}
