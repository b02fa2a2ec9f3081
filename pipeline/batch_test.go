package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/ntt2x2/ring"
)

func TestForwardBatch(t *testing.T) {

	params := newTestParameters(t, 9, LayoutBitReversed, DefaultReadLatency)
	r := params.Ring()

	e := NewEngine(params)
	engines := []*Engine{e, e.ShallowCopy(), e.ShallowCopy()}

	sampler := ring.NewUniformSampler([]byte("batch"), r)

	polys := make([][]uint64, 16)
	want := make([][]uint64, len(polys))
	for i := range polys {
		polys[i] = sampler.ReadNew(r.N)
		want[i] = r.NewPoly()
		r.NTT(polys[i], want[i])
	}

	require.NoError(t, ForwardBatch(engines, polys))
	require.Equal(t, want, polys)

	t.Run("Errors", func(t *testing.T) {

		require.Error(t, ForwardBatch(nil, polys))
		require.Error(t, ForwardBatch(engines, [][]uint64{make([]uint64, 3)}))

		other := NewEngine(newTestParameters(t, 9, LayoutNatural, DefaultReadLatency))
		require.Error(t, ForwardBatch([]*Engine{e, other}, polys))
	})
}
