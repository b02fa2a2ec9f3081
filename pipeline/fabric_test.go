package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/ntt2x2/ring"
)

func TestFabric(t *testing.T) {

	r, err := ring.NewRing(1<<7, ring.FalconModulus)
	require.NoError(t, err)

	butterfly := NewButterfly(r)
	one := ring.MForm(1, r.Modulus)
	ones := [Banks]uint64{one, one, one, one}

	for _, mode := range []Mode{ModeMerged, ModeBypass} {

		for latency := 0; latency < 4; latency++ {

			t.Run(fmt.Sprintf("Drain/%s/L=%d", mode, latency), func(t *testing.T) {

				f := NewFabric(butterfly, mode, latency)

				w := Banks
				view := ColumnView
				if mode == ModeBypass {
					w, view = 2, PairView
				}

				require.Equal(t, w, f.Width())
				require.Equal(t, mode, f.Mode())
				require.Equal(t, latency+2*w, f.WriteDepth())

				f.Reset(view)

				const rows = 16
				D := f.WriteDepth()

				var writes int
				for tick := 0; tick < rows+D; tick++ {

					var row [Banks]uint64
					issue := tick < rows
					if issue {
						row = [Banks]uint64{uint64(tick), 0, 0, 0}
					}

					_, addr, ok := f.Tick(row, ones, tick, issue)

					require.Equal(t, tick >= D, ok, "tick %d", tick)
					if ok {
						require.Equal(t, tick-D, addr)
						writes++
					}
				}

				require.Equal(t, rows, writes)
				require.Zero(t, f.Pending())
			})
		}
	}
}
