// ABOUTME: Category rename command
// ABOUTME: Renames a category folder while keeping its position

package main

import (
	"fmt"

	"github.com/smilemeback/smileback/internal/models"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <category> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := resolveCategory(args[0])
		if err != nil {
			return err
		}
		name, err := models.NewName(args[1])
		if err != nil {
			return err
		}

		renamed, err := board.Rename(cat, name)
		if err != nil {
			return fmt.Errorf("failed to rename category: %w", err)
		}

		success(cmd, "Renamed %s to %s", cat.Name(), renamed.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
