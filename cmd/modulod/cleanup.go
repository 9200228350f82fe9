// Cleanup command sweeps expired recovery snapshots.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/internal/recovery"
)

var flagOlderThan int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete recovery snapshots past the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := flagOlderThan
		if days == 0 {
			days = runtimeConfig.RecoveryRetentionDays
		}

		logger := newLogger()
		store := recovery.NewStore(runtimeConfig.DataDir, logger)
		removed, err := store.Cleanup(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			sysExit("cleanup", err)
		}

		if flagJSON {
			return printJSON(map[string]int{"removed": removed})
		}
		fmt.Printf("Removed %d recovery snapshot(s) older than %d day(s)\n", removed, days)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&flagOlderThan, "older-than", 0, "retention in days (default: recovery_retention_days from config)")
}
