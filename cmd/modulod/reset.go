// Reset command wipes all stored data.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/internal/prefs"
	"github.com/mesh-intelligence/modulo/internal/recovery"
	"github.com/mesh-intelligence/modulo/internal/sqlite"
)

var flagResetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database, preferences, and recovery snapshots",
	Long: `Reset removes everything modulod owns inside the data directory: the
database with its WAL files, the preferences file, and the recovery folder.
Other files in the directory are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := runtimeConfig.DataDir

		if !flagResetForce {
			fmt.Printf("This permanently deletes all Modulo data under %s.\n", dataDir)
			fmt.Print("Type yes to continue: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil || strings.TrimSpace(line) != "yes" {
				fmt.Println("Aborted")
				return nil
			}
		}

		for _, name := range []string{
			sqlite.DatabaseFile,
			sqlite.DatabaseFile + "-wal",
			sqlite.DatabaseFile + "-shm",
			prefs.FileName,
		} {
			if err := os.Remove(filepath.Join(dataDir, name)); err != nil && !os.IsNotExist(err) {
				sysExit("reset", err)
			}
		}
		if err := os.RemoveAll(filepath.Join(dataDir, recovery.DirName)); err != nil {
			sysExit("reset", err)
		}

		fmt.Println("Data directory reset:", dataDir)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetForce, "force", false, "skip the confirmation prompt")
}
