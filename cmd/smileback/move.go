// ABOUTME: Category move command
// ABOUTME: Moves selected categories next to a target category

package main

import (
	"fmt"

	"github.com/smilemeback/smileback/internal/ui"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:     "move <category>... --to <category>",
	Aliases: []string{"mv"},
	Short:   "Move categories before or after a target",
	Long: `Move the selected categories next to the target category.

The selection is placed before the target when the target comes before
every selected category, and after it otherwise. The selected categories
keep their relative order.

Examples:
  smileback move 3 --to 0
  smileback move Food Drinks --to Toys`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		target, err := resolveCategory(to)
		if err != nil {
			return err
		}
		selection, err := resolveCategories(args)
		if err != nil {
			return err
		}

		if err := board.Rearrange(selection, target); err != nil {
			return fmt.Errorf("failed to move categories: %w", err)
		}

		success(cmd, "Moved %s", ui.FormatCount(len(selection), "category", "categories"))
		return nil
	},
}

func init() {
	moveCmd.Flags().String("to", "", "target category (position or name)")
	_ = moveCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(moveCmd)
}
