package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/internal/apiserver"
)

var (
	submitFile   string
	submitDevice string
	submitShots  int
	submitWait   time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a circuit (JSON, see apiserver.CircuitDTO) to a device",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(submitFile)
		if err != nil {
			return fmt.Errorf("read circuit file: %w", err)
		}
		var dto apiserver.CircuitDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return fmt.Errorf("parse circuit file: %w", err)
		}
		circ, err := dto.Build()
		if err != nil {
			return err
		}

		d, cfg, err := buildDispatcher(cmd)
		if err != nil {
			return err
		}
		shots := submitShots
		if shots <= 0 {
			shots = cfg.DefaultShots
		}

		ctx := context.Background()
		jobID, err := d.Submit(ctx, circ, submitDevice, shots)
		if err != nil {
			return err
		}
		fmt.Printf("submitted job %s\n", jobID)
		return awaitAndPrint(ctx, d, jobID, submitWait, "Result")
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitFile, "file", "", "path to a CircuitDTO JSON file")
	submitCmd.Flags().StringVar(&submitDevice, "device", "local-local", "device name to submit to")
	submitCmd.Flags().IntVar(&submitShots, "shots", 0, "shot count (0 uses the configured default)")
	submitCmd.Flags().DurationVar(&submitWait, "wait", 30*time.Second, "how long to wait for completion")
	_ = submitCmd.MarkFlagRequired("file")
}
