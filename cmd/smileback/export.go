// ABOUTME: Export command for the board manifest
// ABOUTME: Writes a YAML description of every category and image

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/smilemeback/smileback/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the board layout as YAML",
	Long: `Export a YAML manifest listing every category and image with its
position, name, and file names. Media files are not included; use
'smileback backup' to copy them.

Examples:
  smileback export
  smileback export -o board.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.ExportManifest(board)
		if err != nil {
			return fmt.Errorf("failed to export board: %w", err)
		}

		if output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // manifest is meant to be shared
			return fmt.Errorf("failed to write manifest: %w", err)
		}

		m, err := storage.ParseManifest(data)
		if err != nil {
			return err
		}
		cats, images := m.Counts()
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Manifest written: %s\n", output)
		fmt.Fprintf(cmd.OutOrStdout(), "  %d categories, %d images\n", cats, images)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
