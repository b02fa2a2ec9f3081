package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/urfave/cli/v2"

	"github.com/Pro7ech/ntt2x2/logger"
	"github.com/Pro7ech/ntt2x2/metrics"
	"github.com/Pro7ech/ntt2x2/pipeline"
	"github.com/Pro7ech/ntt2x2/ring"
)

const (
	logNFlag        = "logn"
	layoutFlag      = "layout"
	readLatencyFlag = "read-latency"
	workersFlag     = "workers"
	countFlag       = "count"
	seedFlag        = "seed"
	verifyFlag      = "verify"
	metricsFlag     = "metrics"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Transform random polynomials through the pipeline",
		ArgsUsage: " ",
		Description: `Samples --count polynomials with SHAKE256 keyed by --seed and transforms
them concurrently on --workers engines. With --verify, every result is compared
with the textbook transform. With --metrics, the pipeline counters are printed
once all transforms are done.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  logNFlag,
				Usage: "log2 of the ring degree, in [3, 11]",
			},
			&cli.GenericFlag{
				Name:  layoutFlag,
				Value: new(layoutValue),
				Usage: "store layout {natural, bit-reversed}",
			},
			&cli.IntFlag{
				Name:  readLatencyFlag,
				Usage: "memory read latency in ticks",
			},
			&cli.IntFlag{
				Name:  workersFlag,
				Usage: "number of concurrent engines",
			},
			&cli.IntFlag{
				Name:  countFlag,
				Value: 1,
				Usage: "number of polynomials to transform",
			},
			&cli.StringFlag{
				Name:  seedFlag,
				Usage: "seed of the input polynomials",
			},
			&cli.BoolFlag{
				Name:  verifyFlag,
				Value: true,
				Usage: "compare every result with the textbook transform",
			},
			&cli.BoolFlag{
				Name:  metricsFlag,
				Usage: "print the pipeline metrics",
			},
		},
		Action: run,
	}
}

// layoutValue adapts [pipeline.Layout] to a command line flag.
type layoutValue struct {
	pipeline.Layout
	set bool
}

func (v *layoutValue) Set(s string) error {
	v.set = true
	return v.Layout.UnmarshalText([]byte(s))
}

func run(c *cli.Context) error {

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if c.IsSet(logNFlag) {
		cfg.Parameters.LogN = c.Int(logNFlag)
	}
	if v, ok := c.Generic(layoutFlag).(*layoutValue); ok && v.set {
		cfg.Parameters.Layout = v.Layout
	}
	if c.IsSet(readLatencyFlag) {
		latency := c.Int(readLatencyFlag)
		cfg.Parameters.ReadLatency = &latency
	}
	if c.IsSet(workersFlag) {
		cfg.Workers = c.Int(workersFlag)
	}
	if c.IsSet(seedFlag) {
		cfg.Seed = c.String(seedFlag)
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	count := c.Int(countFlag)
	if count < 1 {
		return errors.Errorf("invalid --%s: %d < 1", countFlag, count)
	}

	logConfig := cfg.Logger()
	logConfig.Out = c.App.ErrWriter
	log := logger.Create(&logConfig)

	params, err := cfg.PipelineParameters()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()

	engines := make([]*pipeline.Engine, cfg.Workers)
	engines[0] = pipeline.NewEngine(params, pipeline.WithProbe(collector), pipeline.WithLogger(*log))
	for i := 1; i < len(engines); i++ {
		engines[i] = engines[0].ShallowCopy()
	}

	r := params.Ring()
	sampler := ring.NewUniformSampler([]byte(cfg.Seed), r)

	polys := make([][]uint64, count)
	inputs := make([][]uint64, count)
	for i := range polys {
		inputs[i] = sampler.ReadNew(r.N)
		polys[i] = append([]uint64(nil), inputs[i]...)
	}

	log.Info().
		Int("logn", params.LogN()).
		Uint64("modulus", params.Modulus()).
		Str("layout", params.Layout().String()).
		Int("read_latency", params.ReadLatency()).
		Ints("pattern", params.Pattern()).
		Int("workers", len(engines)).
		Int("count", count).
		Msg("Starting transforms")

	now := time.Now()
	if err = pipeline.ForwardBatch(engines, polys); err != nil {
		return errors.Wrap(err, "pipeline transform failed")
	}
	elapsed := time.Since(now)

	if c.Bool(verifyFlag) {
		want := r.NewPoly()
		for i := range polys {
			r.NTT(inputs[i], want)
			if !r.Equal(want, polys[i]) {
				return errors.Errorf("polynomial %d: pipeline output differs from the textbook transform", i)
			}
		}
		log.Info().Int("count", count).Msg("All transforms match the textbook NTT")
	}

	log.Info().Dur("elapsed", elapsed).Msg("Transforms done")

	out := c.App.Writer
	for i := range polys {
		fmt.Fprintf(out, "%d: %s\n", i, formatHead(polys[i], 8))
	}

	if c.Bool(metricsFlag) {
		registry := prometheus.NewRegistry()
		if err = registry.Register(collector); err != nil {
			return errors.Wrap(err, "cannot register metrics")
		}
		families, err := registry.Gather()
		if err != nil {
			return errors.Wrap(err, "cannot gather metrics")
		}
		writeMetrics(out, families)
	}

	return nil
}

// formatHead prints the first n coefficients of p.
func formatHead(p []uint64, n int) string {
	if n > len(p) {
		n = len(p)
	}
	s := make([]string, n)
	for i := range s {
		s[i] = fmt.Sprint(p[i])
	}
	if n < len(p) {
		s = append(s, "...")
	}
	return "[" + strings.Join(s, " ") + "]"
}

// writeMetrics prints counters, gauges and histogram counts, one sample per
// line, sorted by name and labels.
func writeMetrics(w io.Writer, families []*dto.MetricFamily) {

	var lines []string

	for _, mf := range families {
		for _, m := range mf.GetMetric() {

			labels := make([]string, len(m.GetLabel()))
			for i, lp := range m.GetLabel() {
				labels[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
			}
			name := mf.GetName() + "{" + strings.Join(labels, ",") + "}"

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%g", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}

	sort.Strings(lines)

	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
