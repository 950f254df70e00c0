// ABOUTME: Backup command for copying the board
// ABOUTME: Copies every category and image into another data directory

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/smilemeback/smileback/internal/config"
	"github.com/smilemeback/smileback/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the whole board into another directory",
	Long: `Copy every category, thumbnail, picture, and sound into a new data
directory. The copy is a complete board that smileback can open with
--data-dir.

Examples:
  smileback backup --output ~/backups/board
  smileback backup -o /media/usb/smileback-$(date +%Y%m%d)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = fmt.Sprintf("smileback-%s", time.Now().Format("20060102-150405"))
		}
		output = config.ExpandPath(output)

		summary, err := backupBoard(output)
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", output)
		fmt.Fprintf(cmd.OutOrStdout(), "  %d categories, %d images\n", summary.Categories, summary.Images)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "destination directory (default: smileback-YYYYMMDD-HHMMSS)")

	rootCmd.AddCommand(backupCmd)
}

// backupBoard copies the open board into the categories folder under dir.
func backupBoard(dir string) (*storage.CopySummary, error) {
	fsys := osfs.New(dir)
	if err := fsys.MkdirAll(config.CategoriesDirName, 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Join(dir, config.CategoriesDirName), err)
	}
	dst, err := storage.NewCategories(fsys, config.CategoriesDirName, storage.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open backup destination: %w", err)
	}
	summary, err := storage.CopyBoard(board, dst)
	if err != nil {
		return summary, fmt.Errorf("failed to copy board: %w", err)
	}
	return summary, nil
}
