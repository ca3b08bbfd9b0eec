package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices available across every registered provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := buildDispatcher(cmd)
		if err != nil {
			return err
		}
		devices, err := d.ListAllDevices(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("Devices"))
		for _, dev := range devices {
			fmt.Printf("  %-20s %-16s qubits=%-3d operational=%-5v pending=%d\n",
				dev.Name, dev.Kind, dev.Qubits, dev.Operational, dev.PendingJobs)
		}
		return nil
	},
}
