// ABOUTME: Category remove command
// ABOUTME: Deletes categories with all their images and closes the gaps

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <category>...",
	Aliases: []string{"rm"},
	Short:   "Remove categories and all their images",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := resolveCategories(args)
		if err != nil {
			return err
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm && !askConfirm(cmd, fmt.Sprintf("Remove %d categories and all their images?", len(cats))) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := board.Delete(cats); err != nil {
			return fmt.Errorf("failed to remove categories: %w", err)
		}

		for _, cat := range cats {
			success(cmd, "Removed %s", cat.Name())
		}
		return nil
	},
}

func init() {
	removeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
}

// askConfirm prompts on the command output and reads a yes/no answer.
func askConfirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
