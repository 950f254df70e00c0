// ABOUTME: Repository interfaces for the board storage
// ABOUTME: Hide the on-disk naming scheme from callers such as the CLI and MCP server

package storage

import (
	"io"

	"github.com/smilemeback/smileback/internal/models"
)

// CategoryRepository defines the operations on the ordered category list.
type CategoryRepository interface {
	Size() int
	Get(i int) (*Category, error)
	List() []*Category
	Find(name models.Name) (*Category, error)
	Add(name models.Name, thumbnail io.ReadCloser) (*Category, error)
	Rename(cat *Category, name models.Name) (*Category, error)
	Delete(selection []*Category) error
	Rearrange(selection []*Category, target *Category) error
	Organize() error
	Truncate() error
}

// ImageRepository defines the operations on the images of one category.
type ImageRepository interface {
	Size() int
	Get(i int) (*Image, error)
	List() []*Image
	Find(name models.Name) (*Image, error)
	Add(name models.Name, picture, audio io.ReadCloser) (*Image, error)
	Rename(img *Image, name models.Name) (*Image, error)
	Delete(selection []*Image) error
	Rearrange(selection []*Image, target *Image) error
	Transfer(selection []*Image, dest *Images) error
	Organize() error
}
