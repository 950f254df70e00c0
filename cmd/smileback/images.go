// ABOUTME: Image commands grouped under "images"
// ABOUTME: List, add, remove, rename, move, transfer, and organize images of a category

package main

import (
	"fmt"
	"os"

	"github.com/smilemeback/smileback/internal/models"
	"github.com/smilemeback/smileback/internal/ui"
	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:     "images",
	Aliases: []string{"img"},
	Short:   "Manage the images of a category",
}

var imagesListCmd = &cobra.Command{
	Use:     "list <category>",
	Aliases: []string{"ls"},
	Short:   "List the images of a category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cat, images, err := loadImages(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.FormatCategory(cat))
		if images.Size() == 0 {
			fmt.Fprintln(out, "No images yet. Use 'smileback images add' to add one.")
			return nil
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			for _, img := range images.List() {
				fmt.Fprintln(out, ui.FormatImage(img))
			}
			return nil
		}
		fmt.Fprintln(out, ui.ImageTable(images.List()))
		fmt.Fprintln(out, ui.FormatCount(images.Size(), "image", "images"))
		return nil
	},
}

var imagesAddCmd = &cobra.Command{
	Use:     "add <category> <name> <picture.jpg> <audio.3gpp>",
	Aliases: []string{"a"},
	Short:   "Add an image with its sound at the end of a category",
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, images, err := loadImages(args[0])
		if err != nil {
			return err
		}
		name, err := models.NewName(args[1])
		if err != nil {
			return err
		}

		picture, err := os.Open(args[2])
		if err != nil {
			return fmt.Errorf("failed to open picture: %w", err)
		}
		audio, err := os.Open(args[3])
		if err != nil {
			_ = picture.Close()
			return fmt.Errorf("failed to open audio: %w", err)
		}

		img, err := images.Add(name, picture, audio)
		if err != nil {
			return fmt.Errorf("failed to add image: %w", err)
		}

		success(cmd, "Added %s to %s at position %d", img.Name(), cat.Name(), img.Position())
		return nil
	},
}

var imagesRemoveCmd = &cobra.Command{
	Use:     "remove <category> <image>...",
	Aliases: []string{"rm"},
	Short:   "Remove images from a category",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, images, err := loadImages(args[0])
		if err != nil {
			return err
		}
		selection, err := resolveImages(images, args[1:])
		if err != nil {
			return err
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm && !askConfirm(cmd, fmt.Sprintf("Remove %s from %s?", ui.FormatCount(len(selection), "image", "images"), cat.Name())) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := images.Delete(selection); err != nil {
			return fmt.Errorf("failed to remove images: %w", err)
		}

		for _, img := range selection {
			success(cmd, "Removed %s", img.Name())
		}
		return nil
	},
}

var imagesRenameCmd = &cobra.Command{
	Use:   "rename <category> <image> <new-name>",
	Short: "Rename an image and its sound",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, images, err := loadImages(args[0])
		if err != nil {
			return err
		}
		img, err := resolveImage(images, args[1])
		if err != nil {
			return err
		}
		name, err := models.NewName(args[2])
		if err != nil {
			return err
		}

		renamed, err := images.Rename(img, name)
		if err != nil {
			return fmt.Errorf("failed to rename image: %w", err)
		}

		success(cmd, "Renamed %s to %s", img.Name(), renamed.Name())
		return nil
	},
}

var imagesMoveCmd = &cobra.Command{
	Use:     "move <category> <image>... --to <image>",
	Aliases: []string{"mv"},
	Short:   "Move images before or after a target image",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, images, err := loadImages(args[0])
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		target, err := resolveImage(images, to)
		if err != nil {
			return err
		}
		selection, err := resolveImages(images, args[1:])
		if err != nil {
			return err
		}

		if err := images.Rearrange(selection, target); err != nil {
			return fmt.Errorf("failed to move images: %w", err)
		}

		success(cmd, "Moved %s", ui.FormatCount(len(selection), "image", "images"))
		return nil
	},
}

var imagesTransferCmd = &cobra.Command{
	Use:   "transfer <category> <image>... --to <category>",
	Short: "Move images to the end of another category",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, images, err := loadImages(args[0])
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		destCat, dest, err := loadImages(to)
		if err != nil {
			return err
		}
		selection, err := resolveImages(images, args[1:])
		if err != nil {
			return err
		}

		if err := images.Transfer(selection, dest); err != nil {
			return fmt.Errorf("failed to transfer images: %w", err)
		}

		success(cmd, "Transferred %s to %s", ui.FormatCount(len(selection), "image", "images"), destCat.Name())
		return nil
	},
}

var imagesOrganizeCmd = &cobra.Command{
	Use:   "organize <category>",
	Short: "Repair and renumber the images of one category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := resolveCategory(args[0])
		if err != nil {
			return err
		}
		images, err := cat.RecoverImages()
		if err != nil {
			return fmt.Errorf("failed to organize %s: %w", cat.Name(), err)
		}

		success(cmd, "Organized %s with %s", cat.Name(), ui.FormatCount(images.Size(), "image", "images"))
		return nil
	},
}

func init() {
	imagesListCmd.Flags().Bool("plain", false, "one line per image, no table")
	imagesRemoveCmd.Flags().Bool("confirm", false, "skip confirmation prompt")
	imagesMoveCmd.Flags().String("to", "", "target image (position or name)")
	_ = imagesMoveCmd.MarkFlagRequired("to")
	imagesTransferCmd.Flags().String("to", "", "destination category (position or name)")
	_ = imagesTransferCmd.MarkFlagRequired("to")

	imagesCmd.AddCommand(imagesListCmd, imagesAddCmd, imagesRemoveCmd, imagesRenameCmd,
		imagesMoveCmd, imagesTransferCmd, imagesOrganizeCmd)
	rootCmd.AddCommand(imagesCmd)
}
