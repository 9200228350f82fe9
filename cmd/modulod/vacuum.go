// Vacuum command compacts the database.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var vacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Compact the database file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			sysExit("vacuum", err)
		}
		defer backend.Detach()

		if err := backend.Vacuum(cmd.Context()); err != nil {
			sysExit("vacuum", err)
		}

		fmt.Println("Database compacted")
		return nil
	},
}
