package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/Pro7ech/ntt2x2/pipeline"
	"github.com/Pro7ech/ntt2x2/ring"
	"github.com/Pro7ech/ntt2x2/utils"
)

const headFlag = "head"

func vectorCommand() *cli.Command {
	return &cli.Command{
		Name:      "vector",
		Usage:     "Print and check the transform of known inputs",
		ArgsUsage: " ",
		Description: `Transforms the impulse 1 and the polynomial 1+X through the pipeline and
checks them against their closed forms: the impulse maps to all ones and 1+X
maps to 1+psi^(2brv(i)+1) at output i.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  logNFlag,
				Value: 9,
				Usage: "log2 of the ring degree, in [3, 11]",
			},
			&cli.IntFlag{
				Name:  headFlag,
				Value: 8,
				Usage: "number of output coefficients to print",
			},
		},
		Action: vector,
	}
}

func vector(c *cli.Context) error {

	logN := c.Int(logNFlag)

	params, err := pipeline.NewParametersFromLiteral(pipeline.ParametersLiteral{LogN: logN})
	if err != nil {
		return errors.Wrap(err, "invalid parameters")
	}

	r := params.Ring()
	q := r.Modulus
	e := pipeline.NewEngine(params)
	out := c.App.Writer

	fmt.Fprintf(out, "N=%d q=%d psi=%d\n", r.N, q, r.Psi)

	impulse := r.NewPoly()
	impulse[0] = 1
	if err = e.ForwardPoly(impulse, impulse); err != nil {
		return err
	}
	for i, v := range impulse {
		if v != 1 {
			return errors.Errorf("NTT(1)[%d] = %d != 1", i, v)
		}
	}
	fmt.Fprintf(out, "NTT(1)   = %s\n", formatHead(impulse, c.Int(headFlag)))

	onePlusX := r.NewPoly()
	onePlusX[0], onePlusX[1] = 1, 1
	if err = e.ForwardPoly(onePlusX, onePlusX); err != nil {
		return err
	}
	for i, v := range onePlusX {
		want := ring.ModAdd(1, ring.ModExp(r.Psi, uint64(2*utils.BitReverseInt(i, logN)+1), q), q)
		if v != want {
			return errors.Errorf("NTT(1+X)[%d] = %d != %d", i, v, want)
		}
	}
	fmt.Fprintf(out, "NTT(1+X) = %s\n", formatHead(onePlusX, c.Int(headFlag)))

	return nil
}
