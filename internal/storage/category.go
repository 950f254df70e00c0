// ABOUTME: A single positioned category folder with its thumbnail
// ABOUTME: Read-only view reconstructed from disk; rename returns a fresh view

package storage

import (
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/smilemeback/smileback/internal/models"
)

// Category is a folder named {position}_{name} holding a thumbnail and the
// files of its images.
type Category struct {
	fsys     billy.Filesystem
	path     string
	position int
	name     models.Name
	opts     options
}

// NewCategory loads the category stored at path.
func NewCategory(fsys billy.Filesystem, path string, opts ...Option) (*Category, error) {
	const op = "load category"

	info, err := fsys.Stat(path)
	if err != nil {
		return nil, newError(op, path, err)
	}
	if !info.IsDir() {
		return nil, newError(op, path, ErrNotDirectory)
	}

	base := filepath.Base(path)
	position, ok := ParsePosition(base)
	if !ok {
		return nil, newError(op, path, ErrInvalidPosition)
	}
	name, err := ParseName(base)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, path, err)
	}

	thumb := fsys.Join(path, ThumbnailName)
	ok, err = exists(fsys, thumb)
	if err != nil {
		return nil, newError(op, thumb, err)
	}
	if !ok {
		return nil, newError(op, path, ErrMissingThumbnail)
	}

	return &Category{
		fsys:     fsys,
		path:     path,
		position: position,
		name:     name,
		opts:     newOptions(opts),
	}, nil
}

// Position returns the zero-based position of the category.
func (c *Category) Position() int { return c.position }

// Name returns the category label.
func (c *Category) Name() models.Name { return c.name }

// Path returns the folder path relative to the filesystem root.
func (c *Category) Path() string { return c.path }

// ThumbnailPath returns the path of the reserved thumbnail file.
func (c *Category) ThumbnailPath() string {
	return c.fsys.Join(c.path, ThumbnailName)
}

// ModTime returns when the thumbnail was last written.
func (c *Category) ModTime() (time.Time, error) {
	info, err := c.fsys.Stat(c.ThumbnailPath())
	if err != nil {
		return time.Time{}, newError("stat thumbnail", c.ThumbnailPath(), err)
	}
	return info.ModTime(), nil
}

// Compare orders categories by position only.
func (c *Category) Compare(other *Category) int {
	return cmp.Compare(c.position, other.position)
}

// Equal reports whether both values describe the same folder.
func (c *Category) Equal(other *Category) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.path == other.path && c.position == other.position && c.name.Equal(other.name)
}

func (c *Category) String() string {
	return fmt.Sprintf("%d %s", c.position, c.name)
}

// Images scans the folder and returns its images. The result is not cached;
// call again after mutating the category.
func (c *Category) Images() (*Images, error) {
	return NewImages(c.fsys, c.path, c.opts.asOptions()...)
}

// RecoverImages organizes the folder before scanning it, for folders whose
// plain load fails.
func (c *Category) RecoverImages() (*Images, error) {
	return RecoverImages(c.fsys, c.path, c.opts.asOptions()...)
}

// OpenThumbnail opens the thumbnail for reading.
func (c *Category) OpenThumbnail() (io.ReadCloser, error) {
	f, err := c.fsys.Open(c.ThumbnailPath())
	if err != nil {
		return nil, newError("open thumbnail", c.ThumbnailPath(), err)
	}
	return f, nil
}

// ReplaceThumbnail overwrites the thumbnail with r. r is always closed.
func (c *Category) ReplaceThumbnail(r io.ReadCloser) error {
	defer closeQuietly(r)
	if r == nil {
		return fmt.Errorf("%w: thumbnail stream is nil", ErrInvalidArgument)
	}
	if err := writeStream(c.fsys, c.ThumbnailPath(), r); err != nil {
		return newError("replace thumbnail", c.ThumbnailPath(), err)
	}
	return nil
}

// Rename moves the folder to {position}_{name} and returns the renamed
// category. Renaming to the current name is a no-op that returns c.
func (c *Category) Rename(name models.Name) (*Category, error) {
	const op = "rename category"
	if name.IsZero() {
		return nil, &models.NameError{Raw: "", Reason: "name cannot be empty"}
	}
	if name.Equal(c.name) {
		return c, nil
	}

	target := c.fsys.Join(filepath.Dir(c.path), CategoryFileName(c.position, name))
	taken, err := exists(c.fsys, target)
	if err != nil {
		return nil, newError(op, target, err)
	}
	if taken {
		return nil, newError(op, target, ErrExists)
	}
	if err := c.fsys.Rename(c.path, target); err != nil {
		return nil, newError(op, c.path, err)
	}
	return NewCategory(c.fsys, target, c.opts.asOptions()...)
}

// Delete removes the folder and everything in it. The owning collection must
// be organized afterwards.
func (c *Category) Delete() error {
	if err := removeAll(c.fsys, c.path); err != nil {
		return newError("delete category", c.path, err)
	}
	return nil
}
