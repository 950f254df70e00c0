// ABOUTME: Category add command
// ABOUTME: Appends a new category with its thumbnail picture

package main

import (
	"fmt"
	"os"

	"github.com/smilemeback/smileback/internal/models"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <name> <thumbnail.jpg>",
	Aliases: []string{"a"},
	Short:   "Add a category at the end of the board",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := models.NewName(args[0])
		if err != nil {
			return err
		}

		thumb, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open thumbnail: %w", err)
		}

		cat, err := board.Add(name, thumb)
		if err != nil {
			return fmt.Errorf("failed to add category: %w", err)
		}

		success(cmd, "Added %s at position %d", cat.Name(), cat.Position())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
