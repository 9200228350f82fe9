// Root command for the modulod CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/internal/paths"
	"github.com/mesh-intelligence/modulo/pkg/modulo"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

var rootCmd = &cobra.Command{
	Use:     "modulod",
	Short:   "Modulod is the local backend for the Modulo board app",
	Version: modulo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadRuntimeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(vacuumCmd)
	rootCmd.AddCommand(resetCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > MODULO_CONFIG_DIR env > platform
// default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
