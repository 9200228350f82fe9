// Init command for the modulod CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config and data directories",
	Long: `Init writes a default config.yaml into the configuration directory
and opens the database once so the schema and the default workspace exist
before the first serve.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already created the config dir and default
		// config.yaml; attaching materializes the database.
		backend, err := attachBackend()
		if err != nil {
			sysExit("init", err)
		}
		defer backend.Detach()

		configDir, err := resolveConfigDir()
		if err != nil {
			sysExit("init", err)
		}

		fmt.Println("Modulo initialized")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", runtimeConfig.DataDir)
		return nil
	},
}
