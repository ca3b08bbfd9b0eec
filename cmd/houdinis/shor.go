package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/qcore/kernels"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

var (
	shorN     int
	shorA     int
	shorShots int
)

var shorCmd = &cobra.Command{
	Use:   "shor",
	Short: "Recover the period of a^x mod N via phase estimation",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := seededOrEntropyRNG(cmd)
		result, err := kernels.ShorPeriodFinding(shorN, shorA, rng, shorShots)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("Shor period finding"))
		fmt.Printf("  N=%d a=%d qubits_used=%d\n", shorN, shorA, result.QubitsUsed)
		if result.Found {
			fmt.Printf("  period: %d\n", result.Period)
		} else {
			fmt.Println("  period: not found (insufficient consistent samples)")
		}
		printHistogram("Phase measurements", result.Measurements, uint32(shorShots))
		return nil
	},
}

func init() {
	shorCmd.Flags().IntVar(&shorN, "N", 15, "number to factor")
	shorCmd.Flags().IntVar(&shorA, "a", 7, "coprime base for a^x mod N")
	shorCmd.Flags().IntVar(&shorShots, "shots", 100, "shot count for phase estimation sampling")
}

// seededOrEntropyRNG mirrors buildDispatcher's RNG selection for kernels
// that sample directly rather than through a provider.
func seededOrEntropyRNG(cmd *cobra.Command) simulator.RNG {
	if cmd.Flags().Changed("seed") {
		return simulator.NewSeededRNG(seed)
	}
	return simulator.NewEntropyRNG()
}
