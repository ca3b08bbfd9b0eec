package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/kernels"
)

var (
	qftQubits  int
	qftInverse bool
)

var qftCmd = &cobra.Command{
	Use:   "qft",
	Short: "Run the quantum Fourier transform (or its inverse) and measure every qubit",
	RunE: func(cmd *cobra.Command, args []string) error {
		var circ *circuit.Circuit
		var err error
		if qftInverse {
			circ, err = kernels.InverseQFT(qftQubits)
		} else {
			circ, err = kernels.QFT(qftQubits)
		}
		if err != nil {
			return err
		}
		// QFT itself applies no measurements (spec.md §4.3); add one per
		// qubit so the CLI has something to submit and report on.
		measured, err := appendMeasureAll(circ)
		if err != nil {
			return err
		}

		d, cfg, err := buildDispatcher(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()
		jobID, err := d.Submit(ctx, measured, "local-local", cfg.DefaultShots)
		if err != nil {
			return err
		}
		fmt.Printf("submitted job %s\n", jobID)
		return awaitAndPrint(ctx, d, jobID, cfg.AwaitTimeout, "QFT")
	},
}

func init() {
	qftCmd.Flags().IntVar(&qftQubits, "qubits", 3, "width of the transform")
	qftCmd.Flags().BoolVar(&qftInverse, "inverse", false, "run the inverse QFT instead")
}

// appendMeasureAll rebuilds c with a Measure gate on every qubit, mapping
// qubit i to classical bit i.
func appendMeasureAll(c *circuit.Circuit) (*circuit.Circuit, error) {
	b := circuit.New(c.Width(), c.Width()).Named(c.Name())
	for _, g := range c.Gates() {
		b = b.Append(g)
	}
	for q := 0; q < c.Width(); q++ {
		b = b.Measure(q, q)
	}
	return b.Build()
}
