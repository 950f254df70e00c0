// ABOUTME: Organize command
// ABOUTME: Repairs the board by dropping junk entries and closing position gaps

package main

import (
	"fmt"

	"github.com/smilemeback/smileback/internal/ui"
	"github.com/spf13/cobra"
)

var organizeCmd = &cobra.Command{
	Use:         "organize",
	Short:       "Repair the board and renumber every category and image",
	Annotations: map[string]string{annotationRecover: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		// The board itself was repaired while opening.
		total := 0
		for _, cat := range board.List() {
			images, err := cat.RecoverImages()
			if err != nil {
				return fmt.Errorf("failed to organize %s: %w", cat.Name(), err)
			}
			total += images.Size()
		}

		success(cmd, "Organized %s with %s",
			ui.FormatCount(board.Size(), "category", "categories"),
			ui.FormatCount(total, "image", "images"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(organizeCmd)
}
