package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/qcore/kernels"
)

var (
	groverBits   int
	groverMarked int
	groverShots  int
)

var groverCmd = &cobra.Command{
	Use:   "grover",
	Short: "Search an unstructured space of 2^bits states for one marked state",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1 << groverBits
		if groverMarked < 0 || groverMarked >= n {
			return fmt.Errorf("marked state %d is out of range for %d bits", groverMarked, groverBits)
		}
		rng := seededOrEntropyRNG(cmd)
		oracle := kernels.PhaseOracleForState(groverBits, groverMarked)
		result, err := kernels.RunGroverSearch(groverBits, oracle, 1, groverShots, rng)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("Grover search"))
		fmt.Printf("  iterations: %d\n", result.Iterations)
		printHistogram("Search results", result.Counts, uint32(groverShots))
		return nil
	},
}

func init() {
	groverCmd.Flags().IntVar(&groverBits, "bits", 3, "number of search qubits (space size is 2^bits)")
	groverCmd.Flags().IntVar(&groverMarked, "marked", 0, "marked state to search for")
	groverCmd.Flags().IntVar(&groverShots, "shots", 100, "shot count")
}
