// ABOUTME: Category list command
// ABOUTME: Shows every category with its image count and last change

package main

import (
	"fmt"

	"github.com/smilemeback/smileback/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cats := board.List()
		if len(cats) == 0 {
			fmt.Fprintln(out, "No categories yet. Use 'smileback add' to create one.")
			return nil
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			for _, cat := range cats {
				fmt.Fprintln(out, ui.FormatCategory(cat))
			}
			return nil
		}

		rows := make([]ui.CategoryRow, 0, len(cats))
		for _, cat := range cats {
			row := ui.CategoryRow{Category: cat, Images: -1}
			if images, err := cat.Images(); err != nil {
				logger.Warn().Err(err).Str("category", cat.Path()).Msg("failed to load images")
			} else {
				row.Images = images.Size()
			}
			if mod, err := cat.ModTime(); err == nil {
				row.Modified = ui.FormatRelativeTime(mod)
			}
			rows = append(rows, row)
		}
		fmt.Fprintln(out, ui.CategoryTable(rows))
		fmt.Fprintln(out, ui.FormatCount(len(cats), "category", "categories"))
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("plain", false, "one line per category, no table")

	rootCmd.AddCommand(listCmd)
}
