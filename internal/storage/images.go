// ABOUTME: Ordered collection of picture/audio pairs inside one category folder
// ABOUTME: Owns creation, deletion, reordering, transfer, and orphan-aware compaction

package storage

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/smilemeback/smileback/internal/reorder"
)

// Images is the ordered set of image pairs in one category folder. After
// every successful load, List()[i].Position() == i.
type Images struct {
	fsys  billy.Filesystem
	dir   string
	opts  options
	items []*Image
}

// Compile-time check that Images implements ImageRepository.
var _ ImageRepository = (*Images)(nil)

// NewImages loads the images stored in dir.
func NewImages(fsys billy.Filesystem, dir string, opts ...Option) (*Images, error) {
	i, err := openImages(fsys, dir, opts)
	if err != nil {
		return nil, err
	}
	if err := i.parse(); err != nil {
		return nil, err
	}
	return i, nil
}

// RecoverImages organizes dir and then loads it.
func RecoverImages(fsys billy.Filesystem, dir string, opts ...Option) (*Images, error) {
	i, err := openImages(fsys, dir, opts)
	if err != nil {
		return nil, err
	}
	if err := i.Organize(); err != nil {
		return nil, err
	}
	return i, nil
}

func openImages(fsys billy.Filesystem, dir string, opts []Option) (*Images, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: category folder %q does not exist", ErrInvalidArgument, dir)
		}
		return nil, newError(opOpenImages, dir, err)
	}
	if !info.IsDir() {
		return nil, newError(opOpenImages, dir, ErrNotDirectory)
	}
	return &Images{fsys: fsys, dir: dir, opts: newOptions(opts)}, nil
}

// isMediaSuffix reports whether fileName ends in one of the pair suffixes.
func isMediaSuffix(fileName string) (suffix string, ok bool) {
	suffix, ok = ParseSuffix(fileName)
	if !ok {
		return "", false
	}
	return suffix, suffix == ImageSuffix || suffix == AudioSuffix
}

func (i *Images) parse() error {
	const op = "load images"

	entries, err := i.fsys.ReadDir(i.dir)
	if err != nil {
		i.items = nil
		return newError(op, i.dir, err)
	}

	pictures := make(map[int]string)
	audios := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || e.Name() == ThumbnailName {
			continue
		}
		suffix, ok := isMediaSuffix(e.Name())
		if !ok {
			continue
		}
		p := i.fsys.Join(i.dir, e.Name())
		position, ok := ParsePosition(e.Name())
		if !ok {
			i.items = nil
			return newError(op, p, ErrInvalidPosition)
		}
		bucket := audios
		if suffix == ImageSuffix {
			bucket = pictures
		}
		if prev, dup := bucket[position]; dup {
			i.items = nil
			return newError(op, p, fmt.Errorf("%w: position %d also used by %s", ErrNotContiguous, position, prev))
		}
		bucket[position] = p
	}

	for position, aud := range audios {
		if _, ok := pictures[position]; !ok {
			i.items = nil
			return newError(op, aud, ErrOrphan)
		}
	}

	items := make([]*Image, 0, len(pictures))
	for position, pic := range pictures {
		aud, ok := audios[position]
		if !ok {
			i.items = nil
			return newError(op, pic, ErrOrphan)
		}
		img, err := NewImage(i.fsys, pic, aud, i.opts.asOptions()...)
		if err != nil {
			i.items = nil
			return err
		}
		items = append(items, img)
	}

	slices.SortFunc(items, func(a, b *Image) int { return a.Compare(b) })
	positions := make([]int, len(items))
	for k, it := range items {
		positions[k] = it.position
	}
	if err := checkContiguous(op, i.dir, positions); err != nil {
		i.items = nil
		return err
	}

	i.items = items
	return nil
}

func (i *Images) layout(position int, name models.Name) []string {
	return imageLayout(i.fsys, i.dir)(position, name)
}

func (i *Images) indexOf(img *Image) int {
	if img == nil {
		return -1
	}
	for k, it := range i.items {
		if it.picturePath == img.picturePath && it.audioPath == img.audioPath && it.position == img.position {
			return k
		}
	}
	return -1
}

// Dir returns the category folder the images live in.
func (i *Images) Dir() string { return i.dir }

// Size returns the number of images.
func (i *Images) Size() int { return len(i.items) }

// Get returns the image at position k.
func (i *Images) Get(k int) (*Image, error) {
	if k < 0 || k >= len(i.items) {
		return nil, fmt.Errorf("image %d: %w", k, ErrNotFound)
	}
	return i.items[k], nil
}

// List returns the images in position order.
func (i *Images) List() []*Image {
	return slices.Clone(i.items)
}

// Find returns the first image called name.
func (i *Images) Find(name models.Name) (*Image, error) {
	for _, it := range i.items {
		if it.name.Equal(name) {
			return it, nil
		}
	}
	return nil, fmt.Errorf("image %q: %w", name, ErrNotFound)
}

// Add stores picture and audio as a new pair at the next position. Both
// streams are closed on every path.
func (i *Images) Add(name models.Name, picture, audio io.ReadCloser) (*Image, error) {
	const op = "add image"
	defer closeQuietly(picture)
	defer closeQuietly(audio)

	if name.IsZero() {
		return nil, &models.NameError{Raw: "", Reason: "name cannot be empty"}
	}
	if picture == nil || audio == nil {
		return nil, fmt.Errorf("%w: picture and audio streams are required", ErrInvalidArgument)
	}

	dst := i.layout(len(i.items), name)
	free, err := allFree(i.fsys, dst)
	if err != nil {
		return nil, newError(op, dst[0], err)
	}
	if !free {
		return nil, newError(op, dst[0], ErrExists)
	}

	if err := writeStream(i.fsys, dst[0], picture); err != nil {
		return nil, newError(op, dst[0], err)
	}
	if err := writeStream(i.fsys, dst[1], audio); err != nil {
		_ = i.fsys.Remove(dst[0])
		return nil, newError(op, dst[1], err)
	}

	img, err := NewImage(i.fsys, dst[0], dst[1], i.opts.asOptions()...)
	if err != nil {
		_ = i.fsys.Remove(dst[0])
		_ = i.fsys.Remove(dst[1])
		return nil, err
	}
	i.items = append(i.items, img)
	return img, nil
}

// Rename renames img and keeps the collection current.
func (i *Images) Rename(img *Image, name models.Name) (*Image, error) {
	k := i.indexOf(img)
	if k < 0 {
		return nil, newError("rename image", imagePathOf(img), ErrNotFound)
	}
	renamed, err := img.Rename(name)
	if err != nil {
		return nil, err
	}
	i.items[k] = renamed
	return renamed, nil
}

// Delete removes every selected image. Organize always runs afterwards.
func (i *Images) Delete(selection []*Image) (err error) {
	if err := i.checkMembers("delete images", selection); err != nil {
		return err
	}

	defer func() {
		if orgErr := i.Organize(); orgErr != nil {
			err = errors.Join(err, orgErr)
		}
	}()

	var errs []error
	for _, img := range selection {
		if delErr := img.Delete(); delErr != nil {
			errs = append(errs, delErr)
		}
	}
	return errors.Join(errs...)
}

// Transfer moves the selected images to the end of dest, in selection order,
// and then organizes this collection. dest must live on the same filesystem.
func (i *Images) Transfer(selection []*Image, dest *Images) (err error) {
	const op = "transfer images"
	if dest == nil {
		return fmt.Errorf("%s: %w: destination is nil", op, ErrInvalidArgument)
	}
	if dest.dir == i.dir {
		return fmt.Errorf("%s: %w: source and destination are the same category", op, ErrInvalidArgument)
	}
	if err := i.checkMembers(op, selection); err != nil {
		return err
	}

	defer func() {
		if orgErr := i.Organize(); orgErr != nil {
			err = errors.Join(err, orgErr)
		}
	}()

	for _, img := range selection {
		dst := dest.layout(len(dest.items), img.name)
		free, err := allFree(dest.fsys, dst)
		if err != nil {
			return newError(op, dst[0], err)
		}
		if !free {
			return newError(op, dst[0], ErrExists)
		}
		if err := movePaths(i.fsys, img.paths(), dst); err != nil {
			return newError(op, img.picturePath, err)
		}
		moved, err := NewImage(dest.fsys, dst[0], dst[1], dest.opts.asOptions()...)
		if err != nil {
			return err
		}
		dest.items = append(dest.items, moved)
	}
	return nil
}

func (i *Images) checkMembers(op string, selection []*Image) error {
	for _, img := range selection {
		if i.indexOf(img) < 0 {
			return newError(op, imagePathOf(img), ErrNotFound)
		}
	}
	return nil
}

// Rearrange moves selection next to target using the reorder rules and
// renames every pair whose position changes.
func (i *Images) Rearrange(selection []*Image, target *Image) error {
	positions := make([]int, len(i.items))
	for k := range positions {
		positions[k] = k
	}

	selected := make([]int, 0, len(selection))
	for _, img := range selection {
		k := i.indexOf(img)
		if k < 0 {
			return fmt.Errorf("rearrange images: %w: %s is not in the collection", ErrInvalidArgument, imagePathOf(img))
		}
		selected = append(selected, k)
	}
	t := i.indexOf(target)
	if t < 0 {
		return fmt.Errorf("rearrange images: %w: target %s is not in the collection", ErrInvalidArgument, imagePathOf(target))
	}

	mover, err := reorder.New(positions, selected, t)
	if err != nil {
		return fmt.Errorf("rearrange images: %w", err)
	}

	order := mover.Result()
	records := make([]record, len(order))
	for newPos, oldPos := range order {
		it := i.items[oldPos]
		records[newPos] = record{position: it.position, name: it.name, paths: it.paths()}
	}

	if err := renumber(i.fsys, records, i.layout, i.opts.logger); err != nil {
		i.opts.logger.Error().Err(err).Str("dir", i.dir).Msg("rearrange failed, organizing")
		return errors.Join(err, i.Organize())
	}
	return i.parse()
}

// pairKey groups the two halves of a pair.
type pairKey struct {
	position int
	name     string
}

type pair struct {
	name    models.Name
	picture string
	audio   string
}

// Organize repairs the folder. The thumbnail is always kept. Foreign files,
// unparseable names or positions, and halves without a counterpart of the
// same position and name are deleted; the remaining pairs are renumbered to
// 0..n-1 in their existing order. The collection is reloaded from disk.
func (i *Images) Organize() error {
	log := i.opts.logger

	entries, err := i.fsys.ReadDir(i.dir)
	if err != nil {
		return newError("organize images", i.dir, err)
	}

	pairs := make(map[pairKey]*pair)
	for _, e := range entries {
		p := i.fsys.Join(i.dir, e.Name())
		if e.Name() == ThumbnailName && !e.IsDir() {
			continue
		}
		if e.IsDir() {
			if err := discard(i.fsys, log, p, "unexpected directory"); err != nil {
				return err
			}
			continue
		}
		suffix, ok := isMediaSuffix(e.Name())
		if !ok {
			if err := discard(i.fsys, log, p, "unrecognized suffix"); err != nil {
				return err
			}
			continue
		}
		name, err := ParseName(e.Name())
		if err != nil {
			if err := discard(i.fsys, log, p, "unparseable name"); err != nil {
				return err
			}
			continue
		}
		position, ok := ParsePosition(e.Name())
		if !ok {
			if err := discard(i.fsys, log, p, "unparseable position"); err != nil {
				return err
			}
			continue
		}

		key := pairKey{position: position, name: name.String()}
		pr := pairs[key]
		if pr == nil {
			pr = &pair{name: name}
			pairs[key] = pr
		}
		slot := &pr.audio
		if suffix == ImageSuffix {
			slot = &pr.picture
		}
		if *slot != "" {
			if err := discard(i.fsys, log, p, "duplicate of "+*slot); err != nil {
				return err
			}
			continue
		}
		*slot = p
	}

	keys := make([]pairKey, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b pairKey) int {
		if c := cmp.Compare(a.position, b.position); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	var matched []record
	for _, k := range keys {
		pr := pairs[k]
		switch {
		case pr.picture != "" && pr.audio != "":
			matched = append(matched, record{position: k.position, name: pr.name, paths: []string{pr.picture, pr.audio}})
		case pr.picture != "":
			if err := discard(i.fsys, log, pr.picture, "no matching audio"); err != nil {
				return err
			}
		default:
			if err := discard(i.fsys, log, pr.audio, "no matching picture"); err != nil {
				return err
			}
		}
	}

	sortRecords(matched)
	if err := renumber(i.fsys, matched, i.layout, log); err != nil {
		return err
	}
	return i.parse()
}

func imagePathOf(img *Image) string {
	if img == nil {
		return "<nil>"
	}
	return img.picturePath
}
