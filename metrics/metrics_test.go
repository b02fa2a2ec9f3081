package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/ntt2x2/pipeline"
	"github.com/Pro7ech/ntt2x2/ring"
)

func getCounterValue(t *testing.T, metric *prometheus.CounterVec, kind string) float64 {
	var m = &dto.Metric{}
	err := metric.WithLabelValues(kind).Write(m)
	assert.NoError(t, err)
	return m.Counter.GetValue()
}

func TestCollector(t *testing.T) {

	params, err := pipeline.NewParametersFromLiteral(pipeline.ParametersLiteral{LogN: 9})
	require.NoError(t, err)

	c := NewCollector()
	e := pipeline.NewEngine(params, pipeline.WithProbe(c))

	r := params.Ring()
	p := ring.NewUniformSampler([]byte("metrics"), r).ReadNew(r.N)
	require.NoError(t, e.ForwardPoly(p, p))

	R := float64(params.Rows())

	// logN = 9: one direct pass, three transposed passes, one bypass pass.
	assert.Equal(t, R, getCounterValue(t, c.reads, PhaseDirect))
	assert.Equal(t, 3*R, getCounterValue(t, c.reads, PhaseTransposed))
	assert.Equal(t, R, getCounterValue(t, c.reads, PhaseBypass))
	assert.Equal(t, 3*R, getCounterValue(t, c.writes, PhaseTransposed))
	assert.Equal(t, 3.0, getCounterValue(t, c.passes, PhaseTransposed))
	assert.Equal(t, 1.0, getCounterValue(t, c.passes, PhaseBypass))

	// Each pass runs R + D ticks with D = L + 2w.
	L := float64(params.ReadLatency())
	assert.Equal(t, R+L+8, getCounterValue(t, c.ticks, PhaseDirect))
	assert.Equal(t, R+L+4, getCounterValue(t, c.ticks, PhaseBypass))

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(c))

	families, err := registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["ntt2x2_pipeline_row_reads_total"])
	assert.True(t, names["ntt2x2_pipeline_pass_duration_seconds"])
	assert.True(t, names["ntt2x2_pipeline_twiddle_reseeds_total"])
}

func TestPhaseKind(t *testing.T) {
	assert.Equal(t, PhaseDirect, PhaseKind(pipeline.NewMergedStage(0, 0)))
	assert.Equal(t, PhaseTransposed, PhaseKind(pipeline.NewMergedStage(2, 5)))
	assert.Equal(t, PhaseBypass, PhaseKind(pipeline.NewBypassStage(8)))
}
