// ABOUTME: SmileBack configuration management
// ABOUTME: TOML settings, XDG paths, and the factory that opens the board on disk

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/smilemeback/smileback/internal/storage"
)

// CategoriesDirName is the folder under the data directory that holds the board.
const CategoriesDirName = "categories"

// lockFileName sits next to the categories folder, never inside it.
const lockFileName = ".smileback.lock"

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
	validColors  = []string{"auto", "always", "never"}
)

// Config stores smileback configuration.
type Config struct {
	// DataDir holds the categories folder and the writer lock.
	// Supports ~ expansion. Defaults to $XDG_DATA_HOME/smileback.
	DataDir string `toml:"data_dir,omitempty"`

	Logging Logging `toml:"logging"`
	Display Display `toml:"display"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Display contains configuration for terminal output.
type Display struct {
	Color string `toml:"color"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Logging: Logging{Level: "info", Format: "console"},
		Display: Display{Color: "auto"},
	}
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// CategoriesDir returns the absolute path of the categories folder.
func (c *Config) CategoriesDir() string {
	return filepath.Join(c.GetDataDir(), CategoriesDirName)
}

// LockPath returns the path of the advisory writer lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.GetDataDir(), lockFileName)
}

// LogLevel returns the configured level, defaulting to info.
func (c *Config) LogLevel() string {
	if c.Logging.Level == "" {
		return "info"
	}
	return c.Logging.Level
}

// LogFormat returns the configured log format, defaulting to console.
func (c *Config) LogFormat() string {
	if c.Logging.Format == "" {
		return "console"
	}
	return c.Logging.Format
}

// ColorMode returns the configured color mode, defaulting to auto.
func (c *Config) ColorMode() string {
	if c.Display.Color == "" {
		return "auto"
	}
	return c.Display.Color
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validLevels, c.LogLevel()) {
		errs = append(errs, fmt.Errorf("logging.level %q must be one of %s", c.LogLevel(), strings.Join(validLevels, ", ")))
	}
	if !slices.Contains(validFormats, c.LogFormat()) {
		errs = append(errs, fmt.Errorf("logging.format %q must be one of %s", c.LogFormat(), strings.Join(validFormats, ", ")))
	}
	if !slices.Contains(validColors, c.ColorMode()) {
		errs = append(errs, fmt.Errorf("display.color %q must be one of %s", c.ColorMode(), strings.Join(validColors, ", ")))
	}
	return errors.Join(errs...)
}

// Filesystem returns the data directory as a billy filesystem, creating the
// categories folder if needed.
func (c *Config) Filesystem() (billy.Filesystem, error) {
	dataDir := c.GetDataDir()
	if err := os.MkdirAll(filepath.Join(dataDir, CategoriesDirName), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return osfs.New(dataDir), nil
}

// OpenBoard loads the categories from disk. It fails if the board needs
// organizing; use RecoverBoard for that.
func (c *Config) OpenBoard(logger zerolog.Logger) (*storage.Categories, error) {
	fsys, err := c.Filesystem()
	if err != nil {
		return nil, err
	}
	return storage.NewCategories(fsys, CategoriesDirName, storage.WithLogger(logger))
}

// RecoverBoard organizes the categories on disk and then loads them.
func (c *Config) RecoverBoard(logger zerolog.Logger) (*storage.Categories, error) {
	fsys, err := c.Filesystem()
	if err != nil {
		return nil, err
	}
	return storage.Recover(fsys, CategoriesDirName, storage.WithLogger(logger))
}

// defaultDataDir returns the default XDG data directory for smileback.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "smileback")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "smileback", "config.toml")
}

// Load reads config from the default path, writing a default file on first run.
func Load() (*Config, error) {
	path := GetConfigPath()
	cfg, err := LoadFrom(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		if saveErr := cfg.SaveTo(path); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
		}
		return cfg, nil
	}
	return cfg, err
}

// LoadFrom reads config from path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path atomically.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	fsys := osfs.New(dir)
	name := filepath.Base(path)
	tmp := name + "." + uuid.NewString() + ".tmp"
	if err := util.WriteFile(fsys, tmp, data, 0o600); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}
