// ABOUTME: Common storage errors
// ABOUTME: Wraps filesystem failures and invariant violations with their cause

package storage

import (
	"errors"
	"fmt"

	"github.com/smilemeback/smileback/internal/reorder"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrStorage is matched by every *Error.
var ErrStorage = errors.New("storage error")

// ErrInvalidArgument marks precondition failures that are detected before
// anything on disk is touched.
var ErrInvalidArgument = reorder.ErrInvalidArgument

// Invariant violations carried as the cause of an *Error.
var (
	ErrNotDirectory     = errors.New("not a directory")
	ErrMissingThumbnail = errors.New("missing thumbnail")
	ErrMissingFile      = errors.New("missing file")
	ErrInvalidPosition  = errors.New("unparseable position")
	ErrNotContiguous    = errors.New("positions are not contiguous")
	ErrNameMismatch     = errors.New("image and audio names differ")
	ErrOrphan           = errors.New("file has no matching counterpart")
	ErrExists           = errors.New("already exists")
)

// Error wraps a filesystem failure or an invariant violation.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the original cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrStorage
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// Ops of the checks on the collection folder itself. Failures there are not
// fixed by Organize.
const (
	opOpenCategories = "open categories"
	opOpenImages     = "open images"
)

// repairable are the load failures that Organize fixes.
var repairable = []error{
	ErrNotContiguous,
	ErrNotDirectory,
	ErrMissingThumbnail,
	ErrMissingFile,
	ErrInvalidPosition,
	ErrNameMismatch,
	ErrOrphan,
}

// Repairable reports whether err is a load failure that Organize (through
// Recover or RecoverImages) would fix.
func Repairable(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Op == opOpenCategories || se.Op == opOpenImages {
		return false
	}
	for _, target := range repairable {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
