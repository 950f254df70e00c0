// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, sets up logging, takes the writer lock, and opens the board

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/smilemeback/smileback/internal/config"
	"github.com/smilemeback/smileback/internal/logging"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/smilemeback/smileback/internal/storage"
	"github.com/spf13/cobra"
)

// annotationRecover marks commands that open the board in repair mode.
const annotationRecover = "recover"

var (
	cfg    *config.Config
	board  *storage.Categories
	logger = zerolog.Nop()
	lock   *flock.Flock

	configPath string
	dataDir    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "smileback",
	Short: "Manage a picture-and-sound communication board",
	Long: `
███████╗███╗   ███╗██╗██╗     ███████╗██████╗  █████╗  ██████╗██╗  ██╗
██╔════╝████╗ ████║██║██║     ██╔════╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝
███████╗██╔████╔██║██║██║     █████╗  ██████╔╝███████║██║     █████╔╝
╚════██║██║╚██╔╝██║██║██║     ██╔══╝  ██╔══██╗██╔══██║██║     ██╔═██╗
███████║██║ ╚═╝ ██║██║███████╗███████╗██████╔╝██║  ██║╚██████╗██║  ██╗
╚══════╝╚═╝     ╚═╝╚═╝╚══════╝╚══════╝╚═════╝ ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝

      Ordered categories of pictures with recorded sounds

Categories and images are addressed by position or by name.

Examples:
  smileback add Food ./food.jpg
  smileback images add Food Apple ./apple.jpg ./apple.3gpp
  smileback move 2 --to 0
  smileback list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		color.NoColor = !logging.UseColor(cfg.ColorMode(), os.Stdout)
		logger, err = logging.New(logging.Options{
			Level:  cfg.LogLevel(),
			Format: cfg.LogFormat(),
			Color:  cfg.ColorMode(),
			Out:    os.Stderr,
		})
		if err != nil {
			return err
		}

		if err := acquireLock(cfg.LockPath()); err != nil {
			return err
		}

		if cmd.Annotations[annotationRecover] != "" {
			board, err = cfg.RecoverBoard(logger)
		} else {
			board, err = cfg.OpenBoard(logger)
		}
		if err != nil {
			return fmt.Errorf("failed to open board: %w", err)
		}
		logger.Debug().Str("root", cfg.CategoriesDir()).Int("categories", board.Size()).Msg("board opened")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return releaseLock()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/smileback/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory holding the categories folder")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// acquireLock takes the single-writer lock for the data directory.
func acquireLock(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("another smileback process is using %s", filepath.Dir(path))
	}
	lock = fl
	return nil
}

func releaseLock() error {
	if lock == nil {
		return nil
	}
	err := lock.Unlock()
	lock = nil
	return err
}

// withHint points the user at organize when the board is inconsistent.
func withHint(err error) error {
	if storage.Repairable(err) {
		return fmt.Errorf("%w\nhint: run 'smileback organize' to repair the board", err)
	}
	return err
}

// success prints a green check line to the command output.
func success(cmd *cobra.Command, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}

// resolveCategory looks a category up by position first, then by name.
func resolveCategory(ref string) (*storage.Category, error) {
	if pos, err := strconv.Atoi(ref); err == nil {
		if cat, err := board.Get(pos); err == nil {
			return cat, nil
		}
	}
	name, err := models.NewName(ref)
	if err != nil {
		return nil, fmt.Errorf("category '%s' not found", ref)
	}
	cat, err := board.Find(name)
	if err != nil {
		return nil, fmt.Errorf("category '%s' not found", ref)
	}
	return cat, nil
}

// resolveCategories resolves refs into a selection in position order with
// repeated references dropped.
func resolveCategories(refs []string) ([]*storage.Category, error) {
	cats := make([]*storage.Category, 0, len(refs))
	for _, ref := range refs {
		cat, err := resolveCategory(ref)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	slices.SortFunc(cats, (*storage.Category).Compare)
	return slices.CompactFunc(cats, (*storage.Category).Equal), nil
}

// resolveImage looks an image up by position first, then by name.
func resolveImage(images *storage.Images, ref string) (*storage.Image, error) {
	if pos, err := strconv.Atoi(ref); err == nil {
		if img, err := images.Get(pos); err == nil {
			return img, nil
		}
	}
	name, err := models.NewName(ref)
	if err != nil {
		return nil, fmt.Errorf("image '%s' not found", ref)
	}
	img, err := images.Find(name)
	if err != nil {
		return nil, fmt.Errorf("image '%s' not found", ref)
	}
	return img, nil
}

// resolveImages resolves refs into a selection in position order with
// repeated references dropped.
func resolveImages(images *storage.Images, refs []string) ([]*storage.Image, error) {
	imgs := make([]*storage.Image, 0, len(refs))
	for _, ref := range refs {
		img, err := resolveImage(images, ref)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	slices.SortFunc(imgs, (*storage.Image).Compare)
	return slices.CompactFunc(imgs, (*storage.Image).Equal), nil
}

// loadImages opens the images of the referenced category.
func loadImages(ref string) (*storage.Category, *storage.Images, error) {
	cat, err := resolveCategory(ref)
	if err != nil {
		return nil, nil, err
	}
	images, err := cat.Images()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load images of %s: %w", cat.Name(), err)
	}
	return cat, images, nil
}
