// Version command for the modulod CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/pkg/modulo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the modulod version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("modulod", modulo.Version)
	},
}
