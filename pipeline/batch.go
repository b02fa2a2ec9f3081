package pipeline

import (
	"fmt"

	"github.com/Pro7ech/ntt2x2/utils/concurrency"
)

// ForwardBatch evaluates polys[i] = NTT(polys[i]) for every i, running up
// to len(engines) transforms concurrently. Each engine is used by at most
// one transform at a time. All engines must share the same parameters.
func ForwardBatch(engines []*Engine, polys [][]uint64) (err error) {

	if len(engines) == 0 {
		return fmt.Errorf("cannot ForwardBatch: no engine")
	}

	for i := range engines[1:] {
		if p := engines[i+1].Parameters(); !engines[0].params.Equal(&p) {
			return fmt.Errorf("cannot ForwardBatch: engines[%d] has different parameters", i+1)
		}
	}

	N := engines[0].params.N()
	for i := range polys {
		if len(polys[i]) != N {
			return fmt.Errorf("cannot ForwardBatch: len(polys[%d])=%d != N=%d", i, len(polys[i]), N)
		}
	}

	rm := concurrency.NewResourceManager(engines)

	for i := range polys {
		rm.Run(func(e *Engine) (err error) {
			if err = e.ForwardPoly(polys[i], polys[i]); err != nil {
				return fmt.Errorf("polys[%d]: %w", i, err)
			}
			return
		})
	}

	return rm.Wait()
}
