// Stats command reports storage usage.
package main

import (
	"fmt"
	"io"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/internal/prefs"
	"github.com/mesh-intelligence/modulo/internal/recovery"
	"github.com/mesh-intelligence/modulo/internal/sqlite"
	"github.com/mesh-intelligence/modulo/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage usage for the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet := log.New()
		quiet.SetOutput(io.Discard)

		dataDir := runtimeConfig.DataDir
		st, err := stats.Collect(
			filepath.Join(dataDir, sqlite.DatabaseFile),
			filepath.Join(dataDir, prefs.FileName),
			recovery.NewStore(dataDir, quiet),
		)
		if err != nil {
			sysExit("stats", err)
		}

		if flagJSON {
			return printJSON(st)
		}

		fmt.Println("Storage usage")
		fmt.Printf("  database:    %10d bytes  %s\n", st.DatabaseBytes, st.DatabasePath)
		fmt.Printf("  recovery:    %10d bytes  %s\n", st.RecoveryBytes, st.RecoveryPath)
		fmt.Printf("  preferences: %10d bytes  %s\n", st.PreferencesBytes, st.PreferencesPath)
		fmt.Printf("  total:       %10d bytes\n", st.TotalBytes)
		return nil
	},
}
