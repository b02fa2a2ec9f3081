// Package metrics exposes the activity of the pipeline as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Pro7ech/ntt2x2/pipeline"
)

const (
	MetricsNamespace  = "ntt2x2"
	PipelineSubsystem = "pipeline"

	phaseLabel = "phase"
)

// Phase kinds used as label values.
const (
	PhaseDirect     = "direct"
	PhaseTransposed = "transposed"
	PhaseBypass     = "bypass"
)

var phaseKinds = []string{PhaseDirect, PhaseTransposed, PhaseBypass}

// PhaseKind returns the label value of p.
func PhaseKind(p pipeline.Phase) string {
	switch p := p.(type) {
	case pipeline.MergedStage:
		if p.Direct() {
			return PhaseDirect
		}
		return PhaseTransposed
	default:
		return PhaseBypass
	}
}

// Collector is a [pipeline.Probe] accounting the memory traffic and passes
// of the engines it is attached to. It is safe for concurrent use and
// implements [prometheus.Collector].
type Collector struct {
	reads    *prometheus.CounterVec
	writes   *prometheus.CounterVec
	ticks    *prometheus.CounterVec
	passes   *prometheus.CounterVec
	reseeds  *prometheus.CounterVec
	advances *prometheus.CounterVec
	depth    *prometheus.GaugeVec
	duration *prometheus.HistogramVec

	// Per phase kind, resolved once.
	readsByKind  map[string]prometheus.Counter
	writesByKind map[string]prometheus.Counter
}

// NewCollector creates the metrics of a pipeline.
func NewCollector() *Collector {
	c := &Collector{
		reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "row_reads_total",
				Help:      "Count of rows read from the coefficient store",
			},
			[]string{phaseLabel},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "row_writes_total",
				Help:      "Count of rows written back to the coefficient store",
			},
			[]string{phaseLabel},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "ticks_total",
				Help:      "Count of ticks, fill and drain included",
			},
			[]string{phaseLabel},
		),
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "passes_total",
				Help:      "Count of completed passes",
			},
			[]string{phaseLabel},
		),
		reseeds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "twiddle_reseeds_total",
				Help:      "Count of twiddle indices recomputed from the stage",
			},
			[]string{phaseLabel},
		),
		advances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "twiddle_advances_total",
				Help:      "Count of twiddle indices advanced incrementally",
			},
			[]string{phaseLabel},
		),
		depth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "write_depth_ticks",
				Help:      "Ticks between the read and the write of a row in the last pass",
			},
			[]string{phaseLabel},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: PipelineSubsystem,
				Name:      "pass_duration_seconds",
				Help:      "Wall clock duration of a pass",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{phaseLabel},
		),
		readsByKind:  map[string]prometheus.Counter{},
		writesByKind: map[string]prometheus.Counter{},
	}

	for _, kind := range phaseKinds {
		c.readsByKind[kind] = c.reads.WithLabelValues(kind)
		c.writesByKind[kind] = c.writes.WithLabelValues(kind)
	}

	return c
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.reads, c.writes, c.ticks, c.passes, c.reseeds, c.advances, c.depth, c.duration}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

// Read implements [pipeline.Probe].
func (c *Collector) Read(p pipeline.Phase, tick, logical, physical int) {
	c.readsByKind[PhaseKind(p)].Inc()
}

// Write implements [pipeline.Probe].
func (c *Collector) Write(p pipeline.Phase, tick, physical int) {
	c.writesByKind[PhaseKind(p)].Inc()
}

// PassDone implements [pipeline.Probe].
func (c *Collector) PassDone(p pipeline.Phase, stats pipeline.PassStats) {
	kind := PhaseKind(p)
	c.ticks.WithLabelValues(kind).Add(float64(stats.Ticks))
	c.passes.WithLabelValues(kind).Inc()
	c.reseeds.WithLabelValues(kind).Add(float64(stats.Reseeds))
	c.advances.WithLabelValues(kind).Add(float64(stats.Advances))
	c.depth.WithLabelValues(kind).Set(float64(stats.Depth))
	c.duration.WithLabelValues(kind).Observe(stats.Elapsed.Seconds())
}
