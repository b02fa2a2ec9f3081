package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Pro7ech/ntt2x2/pipeline"
)

func patternsCommand() *cli.Command {
	return &cli.Command{
		Name:      "patterns",
		Usage:     "Print the pass schedule of every supported ring degree",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  readLatencyFlag,
				Value: pipeline.DefaultReadLatency,
				Usage: "memory read latency in ticks",
			},
		},
		Action: patterns,
	}
}

func patterns(c *cli.Context) error {

	latency := c.Int(readLatencyFlag)

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "logN\tpattern\tpass\tstage\tdistance\twidth\tdepth\tticks")

	for logN := pipeline.MinLogN; logN <= pipeline.MaxLogN; logN++ {

		params, err := pipeline.NewParametersFromLiteral(pipeline.ParametersLiteral{
			LogN:        logN,
			ReadLatency: &latency,
		})
		if err != nil {
			return err
		}

		for _, p := range params.Phases() {
			D := params.WriteDepth(p)
			fmt.Fprintf(w, "%d\t%v\t%s\t%d\t%d\t%d\t%d\t%d\n",
				logN, params.Pattern(), p, p.Stage(), p.Distance(), p.Width(), D, params.Rows()+D)
		}
	}

	return w.Flush()
}
