// Export command writes a board snapshot as JSONL.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

var (
	flagExportBoard string
	flagExportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one board and everything on it as JSONL",
	Long: `Export writes the board, its columns, cards, subtasks, tags, and notes
as one JSON object per line. The file lands atomically: readers never see a
half-written snapshot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := flagExportOut
		if out == "" {
			out = flagExportBoard + ".jsonl"
		}

		backend, err := attachBackend()
		if err != nil {
			sysExit("export", err)
		}
		defer backend.Detach()

		if err := backend.ExportBoard(cmd.Context(), flagExportBoard, out); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "board %q not found\n", flagExportBoard)
				os.Exit(exitUserError)
			}
			sysExit("export", err)
		}

		fmt.Println("Exported board", flagExportBoard, "to", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportBoard, "board", "", "board id to export")
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "output path (default: <board>.jsonl)")
	_ = exportCmd.MarkFlagRequired("board")
}
