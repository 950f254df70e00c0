// ABOUTME: Tests for renumbering and organize logging
// ABOUTME: Exercises collisions between old and new labels and data-loss warnings

package storage

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenumber_SwapsWithoutCollision(t *testing.T) {
	fsys := memRoot(t)
	a := mkCategory(t, fsys, "0_a")
	b := mkCategory(t, fsys, "1_a")

	cats := &Categories{fsys: fsys, root: testRoot, opts: newOptions(nil)}
	records := []record{
		{position: 1, name: models.MustName("a"), paths: []string{b}},
		{position: 0, name: models.MustName("a"), paths: []string{a}},
	}
	require.NoError(t, renumber(fsys, records, cats.layout, zerolog.Nop()))

	assert.Equal(t, []string{"0_a", "1_a"}, listDir(t, fsys, testRoot))
	assert.Equal(t, "thumb-1_a", readFile(t, fsys, fsys.Join(testRoot, "0_a", ThumbnailName)))
	assert.Equal(t, "thumb-0_a", readFile(t, fsys, fsys.Join(testRoot, "1_a", ThumbnailName)))
}

func TestRenumber_SkipsBusyParkingSlots(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "1_a")
	mkCategory(t, fsys, "2_a")
	stray := mkCategory(t, fsys, "3_a")

	cats := &Categories{fsys: fsys, root: testRoot, opts: newOptions(nil)}
	records := []record{
		{position: 3, name: models.MustName("a"), paths: []string{stray}},
	}
	require.NoError(t, renumber(fsys, records, cats.layout, zerolog.Nop()))
	assert.Equal(t, []string{"0_a", "1_a", "2_a"}, listDir(t, fsys, testRoot))
	assert.Equal(t, "thumb-3_a", readFile(t, fsys, fsys.Join(testRoot, "0_a", ThumbnailName)))
}

func TestRenumber_NothingToDo(t *testing.T) {
	fsys := memRoot(t)
	a := mkCategory(t, fsys, "0_a")
	cats := &Categories{fsys: fsys, root: testRoot, opts: newOptions(nil)}

	records := []record{{position: 0, name: models.MustName("a"), paths: []string{a}}}
	require.NoError(t, renumber(fsys, records, cats.layout, zerolog.Nop()))
	assert.Equal(t, []string{"0_a"}, listDir(t, fsys, testRoot))
}

func TestOrganize_LogsDiscardedEntries(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "0_a")
	mkCategory(t, fsys, "bogus")

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	cats, err := Recover(fsys, testRoot, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 1, cats.Size())

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "bogus")
	assert.Contains(t, out, "unparseable position")
}

func TestCheckContiguous(t *testing.T) {
	assert.NoError(t, checkContiguous("op", "p", nil))
	assert.NoError(t, checkContiguous("op", "p", []int{0, 1, 2}))
	assert.ErrorIs(t, checkContiguous("op", "p", []int{1, 2}), ErrNotContiguous)
	assert.ErrorIs(t, checkContiguous("op", "p", []int{0, 0}), ErrNotContiguous)
}

func TestErrorFormatting(t *testing.T) {
	err := newError("load", "categories/0_a", ErrMissingThumbnail)
	assert.Equal(t, "load categories/0_a: missing thumbnail", err.Error())
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrMissingThumbnail)
	assert.NotErrorIs(t, err, ErrNotFound)

	bare := newError("scan", "", ErrNotDirectory)
	assert.Equal(t, "scan: not a directory", bare.Error())
}
