// ABOUTME: A positioned picture/audio pair inside a category folder
// ABOUTME: Both files share {position}_{name} and differ only by suffix

package storage

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/smilemeback/smileback/internal/models"
)

// Image is a picture file and an audio file with the same position and name.
type Image struct {
	fsys        billy.Filesystem
	picturePath string
	audioPath   string
	position    int
	name        models.Name
	opts        options
}

// NewImage loads the pair stored at picturePath and audioPath.
func NewImage(fsys billy.Filesystem, picturePath, audioPath string, opts ...Option) (*Image, error) {
	const op = "load image"

	picBase, audBase := filepath.Base(picturePath), filepath.Base(audioPath)
	if s, _ := ParseSuffix(picBase); s != ImageSuffix {
		return nil, fmt.Errorf("%s %s: %w: picture must end in %s", op, picturePath, ErrInvalidArgument, ImageSuffix)
	}
	if s, _ := ParseSuffix(audBase); s != AudioSuffix {
		return nil, fmt.Errorf("%s %s: %w: audio must end in %s", op, audioPath, ErrInvalidArgument, AudioSuffix)
	}

	for _, p := range []string{picturePath, audioPath} {
		info, err := fsys.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, newError(op, p, ErrMissingFile)
			}
			return nil, newError(op, p, err)
		}
		if info.IsDir() {
			return nil, newError(op, p, ErrMissingFile)
		}
	}

	picPos, ok := ParsePosition(picBase)
	if !ok {
		return nil, newError(op, picturePath, ErrInvalidPosition)
	}
	audPos, ok := ParsePosition(audBase)
	if !ok {
		return nil, newError(op, audioPath, ErrInvalidPosition)
	}
	picName, err := ParseName(picBase)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, picturePath, err)
	}
	audName, err := ParseName(audBase)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, audioPath, err)
	}

	if !picName.Equal(audName) {
		return nil, newError(op, picturePath, fmt.Errorf("%w: %q vs %q", ErrNameMismatch, picName, audName))
	}
	if picPos != audPos {
		return nil, newError(op, picturePath, fmt.Errorf("%w: positions %d and %d", ErrOrphan, picPos, audPos))
	}

	return &Image{
		fsys:        fsys,
		picturePath: picturePath,
		audioPath:   audioPath,
		position:    picPos,
		name:        picName,
		opts:        newOptions(opts),
	}, nil
}

// Position returns the zero-based position of the image in its category.
func (img *Image) Position() int { return img.position }

// Name returns the image label.
func (img *Image) Name() models.Name { return img.name }

// PicturePath returns the path of the picture file.
func (img *Image) PicturePath() string { return img.picturePath }

// AudioPath returns the path of the audio file.
func (img *Image) AudioPath() string { return img.audioPath }

// Compare orders images by position only.
func (img *Image) Compare(other *Image) int {
	return cmp.Compare(img.position, other.position)
}

// Equal reports whether both values describe the same pair of files.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	return img.picturePath == other.picturePath &&
		img.audioPath == other.audioPath &&
		img.position == other.position &&
		img.name.Equal(other.name)
}

func (img *Image) String() string {
	return fmt.Sprintf("%d %s", img.position, img.name)
}

func (img *Image) paths() []string {
	return []string{img.picturePath, img.audioPath}
}

// OpenPicture opens the picture for reading.
func (img *Image) OpenPicture() (io.ReadCloser, error) {
	f, err := img.fsys.Open(img.picturePath)
	if err != nil {
		return nil, newError("open picture", img.picturePath, err)
	}
	return f, nil
}

// OpenAudio opens the audio clip for reading.
func (img *Image) OpenAudio() (io.ReadCloser, error) {
	f, err := img.fsys.Open(img.audioPath)
	if err != nil {
		return nil, newError("open audio", img.audioPath, err)
	}
	return f, nil
}

// Rename renames both files and returns the renamed image. Renaming to the
// current name is a no-op that returns img.
func (img *Image) Rename(name models.Name) (*Image, error) {
	const op = "rename image"
	if name.IsZero() {
		return nil, &models.NameError{Raw: "", Reason: "name cannot be empty"}
	}
	if name.Equal(img.name) {
		return img, nil
	}

	dst := imageLayout(img.fsys, filepath.Dir(img.picturePath))(img.position, name)
	free, err := allFree(img.fsys, dst)
	if err != nil {
		return nil, newError(op, dst[0], err)
	}
	if !free {
		return nil, newError(op, dst[0], ErrExists)
	}
	if err := movePaths(img.fsys, img.paths(), dst); err != nil {
		return nil, newError(op, img.picturePath, err)
	}
	return NewImage(img.fsys, dst[0], dst[1], img.opts.asOptions()...)
}

// Delete removes both files. The owning collection must be organized
// afterwards.
func (img *Image) Delete() error {
	var errs []error
	for _, p := range img.paths() {
		if err := img.fsys.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, newError("delete image", p, err))
		}
	}
	return errors.Join(errs...)
}

func imageLayout(fsys billy.Filesystem, dir string) layout {
	return func(position int, name models.Name) []string {
		return []string{
			fsys.Join(dir, imageFileName(position, name, ImageSuffix)),
			fsys.Join(dir, imageFileName(position, name, AudioSuffix)),
		}
	}
}
