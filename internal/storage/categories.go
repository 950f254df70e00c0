// ABOUTME: Ordered collection of categories under one root folder
// ABOUTME: Owns creation, deletion, reordering, and compaction of category folders

package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/smilemeback/smileback/internal/reorder"
)

// Categories is the ordered set of category folders under root. After every
// successful load, List()[i].Position() == i.
type Categories struct {
	fsys  billy.Filesystem
	root  string
	opts  options
	items []*Category
}

// Compile-time check that Categories implements CategoryRepository.
var _ CategoryRepository = (*Categories)(nil)

// NewCategories loads the categories under root. A root whose positions are
// not contiguous fails to load; use Recover to repair it.
func NewCategories(fsys billy.Filesystem, root string, opts ...Option) (*Categories, error) {
	c, err := openCategories(fsys, root, opts)
	if err != nil {
		return nil, err
	}
	if err := c.parse(); err != nil {
		return nil, err
	}
	return c, nil
}

// Recover organizes root and then loads it.
func Recover(fsys billy.Filesystem, root string, opts ...Option) (*Categories, error) {
	c, err := openCategories(fsys, root, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Organize(); err != nil {
		return nil, err
	}
	return c, nil
}

func openCategories(fsys billy.Filesystem, root string, opts []Option) (*Categories, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: categories root %q does not exist", ErrInvalidArgument, root)
		}
		return nil, newError(opOpenCategories, root, err)
	}
	if !info.IsDir() {
		return nil, newError(opOpenCategories, root, ErrNotDirectory)
	}
	return &Categories{fsys: fsys, root: root, opts: newOptions(opts)}, nil
}

func (c *Categories) parse() error {
	const op = "load categories"

	entries, err := c.fsys.ReadDir(c.root)
	if err != nil {
		c.items = nil
		return newError(op, c.root, err)
	}

	items := make([]*Category, 0, len(entries))
	for _, e := range entries {
		p := c.fsys.Join(c.root, e.Name())
		if !e.IsDir() {
			c.items = nil
			return newError(op, p, ErrNotDirectory)
		}
		cat, err := NewCategory(c.fsys, p, c.opts.asOptions()...)
		if err != nil {
			c.items = nil
			return err
		}
		items = append(items, cat)
	}

	slices.SortStableFunc(items, func(a, b *Category) int { return a.Compare(b) })
	positions := make([]int, len(items))
	for i, it := range items {
		positions[i] = it.position
	}
	if err := checkContiguous(op, c.root, positions); err != nil {
		c.items = nil
		return err
	}

	c.items = items
	return nil
}

func (c *Categories) layout(position int, name models.Name) []string {
	return []string{c.fsys.Join(c.root, CategoryFileName(position, name))}
}

func (c *Categories) indexOf(cat *Category) int {
	if cat == nil {
		return -1
	}
	for i, it := range c.items {
		if it.path == cat.path && it.position == cat.position {
			return i
		}
	}
	return -1
}

// Root returns the root folder path.
func (c *Categories) Root() string { return c.root }

// Size returns the number of categories.
func (c *Categories) Size() int { return len(c.items) }

// Get returns the category at position i.
func (c *Categories) Get(i int) (*Category, error) {
	if i < 0 || i >= len(c.items) {
		return nil, fmt.Errorf("category %d: %w", i, ErrNotFound)
	}
	return c.items[i], nil
}

// List returns the categories in position order.
func (c *Categories) List() []*Category {
	return slices.Clone(c.items)
}

// Find returns the first category called name.
func (c *Categories) Find(name models.Name) (*Category, error) {
	for _, it := range c.items {
		if it.name.Equal(name) {
			return it, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", name, ErrNotFound)
}

// Add creates a category at the next position with the given thumbnail.
// thumbnail is closed on every path.
func (c *Categories) Add(name models.Name, thumbnail io.ReadCloser) (*Category, error) {
	const op = "add category"
	defer closeQuietly(thumbnail)

	if name.IsZero() {
		return nil, &models.NameError{Raw: "", Reason: "name cannot be empty"}
	}
	if thumbnail == nil {
		return nil, fmt.Errorf("%w: thumbnail stream is nil", ErrInvalidArgument)
	}

	dir := c.layout(len(c.items), name)[0]
	taken, err := exists(c.fsys, dir)
	if err != nil {
		return nil, newError(op, dir, err)
	}
	if taken {
		return nil, newError(op, dir, ErrExists)
	}

	if err := c.fsys.MkdirAll(dir, dirPerm); err != nil {
		return nil, newError(op, dir, err)
	}
	if err := writeStream(c.fsys, c.fsys.Join(dir, ThumbnailName), thumbnail); err != nil {
		_ = removeAll(c.fsys, dir)
		return nil, newError(op, dir, err)
	}

	cat, err := NewCategory(c.fsys, dir, c.opts.asOptions()...)
	if err != nil {
		_ = removeAll(c.fsys, dir)
		return nil, err
	}
	c.items = append(c.items, cat)
	return cat, nil
}

// Rename renames cat and keeps the collection current.
func (c *Categories) Rename(cat *Category, name models.Name) (*Category, error) {
	i := c.indexOf(cat)
	if i < 0 {
		return nil, newError("rename category", pathOf(cat), ErrNotFound)
	}
	renamed, err := cat.Rename(name)
	if err != nil {
		return nil, err
	}
	c.items[i] = renamed
	return renamed, nil
}

// Delete removes every selected category. Organize always runs afterwards,
// even when a deletion fails, to restore contiguous positions.
func (c *Categories) Delete(selection []*Category) (err error) {
	for _, cat := range selection {
		if c.indexOf(cat) < 0 {
			return newError("delete categories", pathOf(cat), ErrNotFound)
		}
	}

	defer func() {
		if orgErr := c.Organize(); orgErr != nil {
			err = errors.Join(err, orgErr)
		}
	}()

	var errs []error
	for _, cat := range selection {
		if delErr := cat.Delete(); delErr != nil {
			errs = append(errs, delErr)
		}
	}
	return errors.Join(errs...)
}

// Truncate removes every category and leaves an empty root.
func (c *Categories) Truncate() error {
	const op = "truncate categories"
	if err := removeAll(c.fsys, c.root); err != nil {
		return newError(op, c.root, err)
	}
	if err := c.fsys.MkdirAll(c.root, dirPerm); err != nil {
		return newError(op, c.root, err)
	}
	c.items = nil
	return c.parse()
}

// Organize repairs the root: entries that are not directories, whose name
// or position cannot be parsed, or that have no thumbnail are deleted, and
// the rest are renumbered to 0..n-1 in their existing order. The collection is reloaded from disk.
func (c *Categories) Organize() error {
	log := c.opts.logger

	entries, err := c.fsys.ReadDir(c.root)
	if err != nil {
		return newError("organize categories", c.root, err)
	}

	var kept []record
	for _, e := range entries {
		p := c.fsys.Join(c.root, e.Name())
		if !e.IsDir() {
			if err := discard(c.fsys, log, p, "not a directory"); err != nil {
				return err
			}
			continue
		}
		name, err := ParseName(e.Name())
		if err != nil {
			if err := discard(c.fsys, log, p, "unparseable name"); err != nil {
				return err
			}
			continue
		}
		position, ok := ParsePosition(e.Name())
		if !ok {
			if err := discard(c.fsys, log, p, "unparseable position"); err != nil {
				return err
			}
			continue
		}
		hasThumb, err := exists(c.fsys, c.fsys.Join(p, ThumbnailName))
		if err != nil {
			return newError("organize categories", p, err)
		}
		if !hasThumb {
			if err := discard(c.fsys, log, p, "missing thumbnail"); err != nil {
				return err
			}
			continue
		}
		kept = append(kept, record{position: position, name: name, paths: []string{p}})
	}

	sortRecords(kept)
	if err := renumber(c.fsys, kept, c.layout, log); err != nil {
		return err
	}
	return c.parse()
}

// Rearrange moves selection next to target using the reorder rules and
// renames every category whose position changes.
func (c *Categories) Rearrange(selection []*Category, target *Category) error {
	positions := make([]int, len(c.items))
	for i := range positions {
		positions[i] = i
	}

	selected := make([]int, 0, len(selection))
	for _, cat := range selection {
		i := c.indexOf(cat)
		if i < 0 {
			return fmt.Errorf("rearrange categories: %w: %s is not in the collection", ErrInvalidArgument, pathOf(cat))
		}
		selected = append(selected, i)
	}
	t := c.indexOf(target)
	if t < 0 {
		return fmt.Errorf("rearrange categories: %w: target %s is not in the collection", ErrInvalidArgument, pathOf(target))
	}

	mover, err := reorder.New(positions, selected, t)
	if err != nil {
		return fmt.Errorf("rearrange categories: %w", err)
	}

	order := mover.Result()
	records := make([]record, len(order))
	for newPos, oldPos := range order {
		it := c.items[oldPos]
		records[newPos] = record{position: it.position, name: it.name, paths: []string{it.path}}
	}

	if err := renumber(c.fsys, records, c.layout, c.opts.logger); err != nil {
		c.opts.logger.Error().Err(err).Str("root", c.root).Msg("rearrange failed, organizing")
		return errors.Join(err, c.Organize())
	}
	return c.parse()
}

func pathOf(cat *Category) string {
	if cat == nil {
		return "<nil>"
	}
	return cat.path
}
