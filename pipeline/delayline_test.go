package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDelayLine(t *testing.T) {

	for depth := 0; depth < 6; depth++ {

		t.Run(fmt.Sprintf("Fidelity/Depth=%d", depth), func(t *testing.T) {

			d := NewDelayLine[int](depth)
			require.Equal(t, depth, d.Depth())

			// Every third slot is a bubble.
			valid := func(tick int) bool { return tick%3 != 2 }

			const n = 20
			for tick := 0; tick < n+depth; tick++ {

				ok := tick < n && valid(tick)
				out, outOK := d.Shift(tick, ok)

				if src := tick - depth; src >= 0 && src < n && valid(src) {
					require.True(t, outOK, "tick %d", tick)
					require.Equal(t, src, out, "tick %d", tick)
				} else {
					require.False(t, outOK, "tick %d", tick)
				}

				require.LessOrEqual(t, d.Pending(), depth)
			}

			require.Zero(t, d.Pending())
		})
	}

	t.Run("Reset", func(t *testing.T) {
		d := NewDelayLine[int](3)
		d.Shift(1, true)
		d.Shift(2, true)
		require.Equal(t, 2, d.Pending())
		d.Reset()
		require.Zero(t, d.Pending())
		for i := 0; i < 3; i++ {
			_, ok := d.Shift(0, false)
			require.False(t, ok)
		}
	})

	t.Run("InvalidDepth", func(t *testing.T) {
		require.Panics(t, func() { NewDelayLine[int](-1) })
	})
}
