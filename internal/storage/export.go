// ABOUTME: YAML manifest export of a board
// ABOUTME: Describes every category and image with positions and file names

package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the current manifest format version.
const ManifestVersion = "1.0"

// ManifestTool identifies manifests written by this module.
const ManifestTool = "smileback"

// Manifest is the YAML description of a board.
type Manifest struct {
	Version    string             `yaml:"version"`
	ExportedAt time.Time          `yaml:"exported_at"`
	Tool       string             `yaml:"tool"`
	Categories []CategoryManifest `yaml:"categories"`
}

// CategoryManifest describes one category folder.
type CategoryManifest struct {
	Position  int             `yaml:"position"`
	Name      string          `yaml:"name"`
	Directory string          `yaml:"directory"`
	Thumbnail string          `yaml:"thumbnail"`
	Images    []ImageManifest `yaml:"images"`
}

// ImageManifest describes one picture/audio pair.
type ImageManifest struct {
	Position int    `yaml:"position"`
	Name     string `yaml:"name"`
	Picture  string `yaml:"picture"`
	Audio    string `yaml:"audio"`
}

// BuildManifest walks the board and describes it.
func BuildManifest(cats *Categories) (*Manifest, error) {
	m := &Manifest{
		Version:    ManifestVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       ManifestTool,
		Categories: make([]CategoryManifest, 0, cats.Size()),
	}

	for _, cat := range cats.List() {
		images, err := cat.Images()
		if err != nil {
			return nil, fmt.Errorf("list images of %s: %w", cat.Path(), err)
		}
		cm := CategoryManifest{
			Position:  cat.Position(),
			Name:      cat.Name().String(),
			Directory: filepath.Base(cat.Path()),
			Thumbnail: ThumbnailName,
			Images:    make([]ImageManifest, 0, images.Size()),
		}
		for _, img := range images.List() {
			cm.Images = append(cm.Images, ImageManifest{
				Position: img.Position(),
				Name:     img.Name().String(),
				Picture:  filepath.Base(img.PicturePath()),
				Audio:    filepath.Base(img.AudioPath()),
			})
		}
		m.Categories = append(m.Categories, cm)
	}
	return m, nil
}

// ExportManifest returns the board manifest as YAML.
func ExportManifest(cats *Categories) ([]byte, error) {
	m, err := BuildManifest(cats)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(m)
}

// ParseManifest reads a manifest written by ExportManifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version: %s (expected %s)", m.Version, ManifestVersion)
	}
	if m.Tool != ManifestTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", m.Tool, ManifestTool)
	}
	return &m, nil
}

// Counts returns the number of categories and images described.
func (m *Manifest) Counts() (categories, images int) {
	for _, c := range m.Categories {
		images += len(c.Images)
	}
	return len(m.Categories), images
}
