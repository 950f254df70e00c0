// ABOUTME: Shared fixtures for storage tests
// ABOUTME: Builds boards on memfs and osfs and tracks stream closing

package storage

import (
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/stretchr/testify/require"
)

const testRoot = "categories"

// trackingReader records whether Close was called.
type trackingReader struct {
	io.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

func stream(content string) *trackingReader {
	return &trackingReader{Reader: strings.NewReader(content)}
}

// failingReader fails every read.
type failingReader struct {
	closed bool
}

func (r *failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func (r *failingReader) Close() error {
	r.closed = true
	return nil
}

func memRoot(t *testing.T) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll(testRoot, dirPerm))
	return fsys
}

func osRoot(t *testing.T) billy.Filesystem {
	t.Helper()
	fsys := osfs.New(t.TempDir())
	require.NoError(t, fsys.MkdirAll(testRoot, dirPerm))
	return fsys
}

// backends runs fn against an in-memory and an on-disk filesystem.
func backends(t *testing.T, fn func(t *testing.T, fsys billy.Filesystem)) {
	t.Run("memfs", func(t *testing.T) { fn(t, memRoot(t)) })
	t.Run("osfs", func(t *testing.T) { fn(t, osRoot(t)) })
}

func writeFile(t *testing.T, fsys billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fsys billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

// mkCategory creates a category folder with a thumbnail by hand.
func mkCategory(t *testing.T, fsys billy.Filesystem, dirName string) string {
	t.Helper()
	dir := fsys.Join(testRoot, dirName)
	require.NoError(t, fsys.MkdirAll(dir, dirPerm))
	writeFile(t, fsys, fsys.Join(dir, ThumbnailName), "thumb-"+dirName)
	return dir
}

// mkPair writes both halves of an image pair by hand.
func mkPair(t *testing.T, fsys billy.Filesystem, dir, base string) {
	t.Helper()
	writeFile(t, fsys, fsys.Join(dir, base+ImageSuffix), "pic-"+base)
	writeFile(t, fsys, fsys.Join(dir, base+AudioSuffix), "aud-"+base)
}

// listDir returns the sorted entry names of dir.
func listDir(t *testing.T, fsys billy.Filesystem, dir string) []string {
	t.Helper()
	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func exist(t *testing.T, fsys billy.Filesystem, path string) bool {
	t.Helper()
	_, err := fsys.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

func names(t *testing.T, raw ...string) []models.Name {
	t.Helper()
	out := make([]models.Name, len(raw))
	for i, r := range raw {
		out[i] = models.MustName(r)
	}
	return out
}

func categoryNames(cats *Categories) []string {
	out := make([]string, 0, cats.Size())
	for _, c := range cats.List() {
		out = append(out, c.Name().String())
	}
	return out
}

func imageNames(imgs *Images) []string {
	out := make([]string, 0, imgs.Size())
	for _, img := range imgs.List() {
		out = append(out, img.Name().String())
	}
	return out
}

// seedBoard adds categories named raw in order through the public API.
func seedBoard(t *testing.T, fsys billy.Filesystem, raw ...string) *Categories {
	t.Helper()
	cats, err := NewCategories(fsys, testRoot)
	require.NoError(t, err)
	for _, n := range names(t, raw...) {
		_, err := cats.Add(n, stream("thumb"))
		require.NoError(t, err)
	}
	return cats
}

// seedImages adds images named raw in order to cat.
func seedImages(t *testing.T, cat *Category, raw ...string) *Images {
	t.Helper()
	imgs, err := cat.Images()
	require.NoError(t, err)
	for _, n := range names(t, raw...) {
		_, err := imgs.Add(n, stream("pic-"+n.String()), stream("aud-"+n.String()))
		require.NoError(t, err)
	}
	return imgs
}

func assertContiguousCategories(t *testing.T, cats *Categories) {
	t.Helper()
	for i, c := range cats.List() {
		require.Equal(t, i, c.Position(), "category %s", c)
	}
}

func assertContiguousImages(t *testing.T, imgs *Images) {
	t.Helper()
	for i, img := range imgs.List() {
		require.Equal(t, i, img.Position(), "image %s", img)
	}
}
