package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/qcore/kernels"
)

var benchQubits int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark a QFT reference circuit across every known device",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := buildDispatcher(cmd)
		if err != nil {
			return err
		}
		circ, err := kernels.QFT(benchQubits)
		if err != nil {
			return err
		}

		ctx := context.Background()
		devices, err := d.ListAllDevices(ctx)
		if err != nil {
			return err
		}
		names := make([]string, len(devices))
		for i, dev := range devices {
			names[i] = dev.Name
		}

		runs, err := d.Benchmark(ctx, circ, names)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("Benchmark"))
		for _, r := range runs {
			status := "ok"
			if !r.Success {
				status = "FAILED: " + r.Error
			}
			fmt.Printf("  %-20s %6dms  %s\n", r.Device, r.ExecutionTimeMs, status)
		}
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchQubits, "qubits", 4, "width of the reference QFT circuit")
}
