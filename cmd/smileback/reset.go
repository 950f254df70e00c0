// ABOUTME: Reset command
// ABOUTME: Deletes every category and image on the board

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every category and image",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm && !askConfirm(cmd, fmt.Sprintf("Delete all %d categories?", board.Size())) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := board.Truncate(); err != nil {
			return fmt.Errorf("failed to reset board: %w", err)
		}

		success(cmd, "Board is empty")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(resetCmd)
}
