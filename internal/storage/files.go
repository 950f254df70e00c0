// ABOUTME: Filesystem helpers on top of go-billy
// ABOUTME: Existence checks, staged stream writes, and grouped renames with rollback

package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
)

const dirPerm = 0o755

// exists reports whether path exists at all.
func exists(fsys billy.Filesystem, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// allFree reports whether none of paths exist.
func allFree(fsys billy.Filesystem, paths []string) (bool, error) {
	for _, p := range paths {
		ok, err := exists(fsys, p)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// writeStream copies r into a uuid-named .part sibling of path and renames it
// into place, so path never holds a partial copy.
func writeStream(fsys billy.Filesystem, path string, r io.Reader) error {
	tmp := fmt.Sprintf("%s.%s%s", path, uuid.NewString(), partSuffix)

	f, err := fsys.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// movePaths renames from[i] to to[i] in order. If a rename fails, the ones
// already done are reverted so the group stays together.
func movePaths(fsys billy.Filesystem, from, to []string) error {
	if len(from) != len(to) {
		return fmt.Errorf("%w: %d sources for %d destinations", ErrInvalidArgument, len(from), len(to))
	}
	for i := range from {
		if err := fsys.Rename(from[i], to[i]); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = fsys.Rename(to[j], from[j])
			}
			return err
		}
	}
	return nil
}

func removeAll(fsys billy.Filesystem, path string) error {
	return util.RemoveAll(fsys, path)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
