// ABOUTME: Encodes and decodes {position}_{name}{suffix} storage file names
// ABOUTME: Pure functions shared by the category and image collections

package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smilemeback/smileback/internal/models"
)

// Reserved file names and suffixes of the on-disk layout.
const (
	ThumbnailName = "_thumbnail.jpg"
	ImageSuffix   = ".jpg"
	AudioSuffix   = ".3gpp"

	partSuffix = ".part"
)

// CategoryFileName returns the directory name of a category.
func CategoryFileName(position int, name models.Name) string {
	return fmt.Sprintf("%d_%s", position, name)
}

// ImageFileName returns the file name of one half of an image pair.
// suffix must be ImageSuffix or AudioSuffix.
func ImageFileName(position int, name models.Name, suffix string) (string, error) {
	if suffix != ImageSuffix && suffix != AudioSuffix {
		return "", fmt.Errorf("%w: unrecognized suffix %q", ErrInvalidArgument, suffix)
	}
	return imageFileName(position, name, suffix), nil
}

func imageFileName(position int, name models.Name, suffix string) string {
	return fmt.Sprintf("%d_%s%s", position, name, suffix)
}

// ParseName extracts the name from a storage file name by dropping the
// position prefix and the suffix.
func ParseName(fileName string) (models.Name, error) {
	raw := fileName
	if i := strings.IndexByte(raw, '_'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}
	return models.NewName(raw)
}

// ParsePosition extracts the position prefix. ok is false when the name has
// no '_' or the prefix is not a number; callers treat that as a foreign entry.
func ParsePosition(fileName string) (position int, ok bool) {
	i := strings.IndexByte(fileName, '_')
	if i < 0 {
		return 0, false
	}
	position, err := strconv.Atoi(fileName[:i])
	if err != nil {
		return 0, false
	}
	return position, true
}

// ParseSuffix returns everything from the last '.' on.
func ParseSuffix(fileName string) (suffix string, ok bool) {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return "", false
	}
	return fileName[i:], true
}
