package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBankedStore(t *testing.T) {

	const R = 8

	pol := make([]uint64, Banks*R)
	for i := range pol {
		pol[i] = uint64(i)
	}

	for _, layout := range []Layout{LayoutNatural, LayoutBitReversed} {

		t.Run(layout.String(), func(t *testing.T) {

			s := NewBankedStore(R)
			require.Equal(t, R, s.Rows())

			s.Load(pol, layout)

			// Coefficient x is in bank x/R of logical row x%R.
			for x := range pol {
				row := s.ReadRow(layout.Resolve(x%R, 3))
				require.Equal(t, pol[x], row[x/R])
			}

			have := make([]uint64, len(pol))
			s.CopyNew().Unload(have, layout)
			require.Equal(t, pol, have)
		})
	}

	t.Run("Misuse", func(t *testing.T) {
		require.Panics(t, func() { NewBankedStore(6) })
		require.Panics(t, func() { NewBankedStore(R).Load(make([]uint64, R), LayoutNatural) })
		require.Panics(t, func() { NewBankedStore(R).Unload(make([]uint64, 5*R), LayoutNatural) })
	})
}
