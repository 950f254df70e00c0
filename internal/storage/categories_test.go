// ABOUTME: Tests for Category and Categories
// ABOUTME: Covers loading, add, rename, delete, truncate, organize, and rearrange on disk

package storage

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategories_Empty(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		cats, err := NewCategories(fsys, testRoot)
		require.NoError(t, err)
		assert.Equal(t, 0, cats.Size())
		assert.Equal(t, testRoot, cats.Root())
	})
}

func TestNewCategories_MissingRoot(t *testing.T) {
	fsys := memRoot(t)
	_, err := NewCategories(fsys, "nowhere")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewCategories_RootIsFile(t *testing.T) {
	fsys := memRoot(t)
	writeFile(t, fsys, "plain", "x")

	_, err := NewCategories(fsys, "plain")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestRepairable(t *testing.T) {
	fsys := memRoot(t)
	writeFile(t, fsys, "plain", "x")
	_, err := NewCategories(fsys, "plain")
	require.ErrorIs(t, err, ErrNotDirectory)
	assert.False(t, Repairable(err), "a root that is a file cannot be organized")

	mkCategory(t, fsys, "0_a")
	writeFile(t, fsys, fsys.Join(testRoot, "notes.txt"), "x")
	_, err = NewCategories(fsys, testRoot)
	require.ErrorIs(t, err, ErrNotDirectory)
	assert.True(t, Repairable(err))
	assert.True(t, Repairable(fmt.Errorf("open board: %w", err)))

	_, err = Recover(fsys, testRoot)
	require.NoError(t, err)

	require.NoError(t, fsys.MkdirAll(fsys.Join(testRoot, "1_b"), dirPerm))
	_, err = NewCategories(fsys, testRoot)
	require.ErrorIs(t, err, ErrMissingThumbnail)
	assert.True(t, Repairable(err))

	assert.False(t, Repairable(errors.New("boom")))
	assert.False(t, Repairable(newError("add category", "categories/0_a", ErrExists)))
}

func TestNewCategories_FileInRootIsFatal(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "0_a")
	writeFile(t, fsys, fsys.Join(testRoot, "notes.txt"), "x")

	_, err := NewCategories(fsys, testRoot)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestNewCategories_MissingThumbnail(t *testing.T) {
	fsys := memRoot(t)
	require.NoError(t, fsys.MkdirAll(fsys.Join(testRoot, "0_a"), dirPerm))

	_, err := NewCategories(fsys, testRoot)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrMissingThumbnail)
}

func TestNewCategories_NotContiguous(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		mkCategory(t, fsys, "0_a")
		mkCategory(t, fsys, "2_b")

		_, err := NewCategories(fsys, testRoot)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotContiguous)

		var serr *Error
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, testRoot, serr.Path)
	})
}

func TestNewCategories_DuplicatePosition(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "0_a")
	mkCategory(t, fsys, "0_b")

	_, err := NewCategories(fsys, testRoot)
	assert.ErrorIs(t, err, ErrNotContiguous)
}

func TestNewCategories_InvalidName(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "0_")

	_, err := NewCategories(fsys, testRoot)
	assert.ErrorIs(t, err, models.ErrInvalidName)
}

func TestNewCategory_InvalidPosition(t *testing.T) {
	fsys := memRoot(t)
	dir := mkCategory(t, fsys, "x_a")

	_, err := NewCategory(fsys, dir)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestNewCategories_LoadsInPositionOrder(t *testing.T) {
	fsys := memRoot(t)
	for _, d := range []string{"2_c", "10_k", "0_a", "1_b", "3_d", "4_e", "5_f", "6_g", "7_h", "8_i", "9_j"} {
		mkCategory(t, fsys, d)
	}

	cats, err := NewCategories(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}, categoryNames(cats))
	assertContiguousCategories(t, cats)
}

func TestCategoriesAddThenTruncate(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		cats, err := NewCategories(fsys, testRoot)
		require.NoError(t, err)

		thumb := stream("jpeg bytes")
		cat, err := cats.Add(models.MustName("Food"), thumb)
		require.NoError(t, err)
		assert.True(t, thumb.closed)

		assert.Equal(t, 1, cats.Size())
		assert.Equal(t, "Food", cat.Name().String())
		assert.Equal(t, 0, cat.Position())
		assert.Equal(t, fsys.Join(testRoot, "0_Food"), cat.Path())
		assert.Equal(t, "jpeg bytes", readFile(t, fsys, cat.ThumbnailPath()))
		assert.Equal(t, []string{ThumbnailName}, listDir(t, fsys, cat.Path()))

		require.NoError(t, cats.Truncate())
		assert.Equal(t, 0, cats.Size())
		assert.Empty(t, listDir(t, fsys, testRoot))
	})
}

func TestCategoriesAdd_AppendsPositions(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b", "c")

	assert.Equal(t, []string{"0_a", "1_b", "2_c"}, listDir(t, fsys, testRoot))
	assertContiguousCategories(t, cats)

	reloaded, err := NewCategories(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, categoryNames(cats), categoryNames(reloaded))
}

func TestCategoriesAdd_ClosesStreamOnFailure(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a")

	t.Run("empty name", func(t *testing.T) {
		thumb := stream("x")
		_, err := cats.Add(models.Name{}, thumb)
		assert.ErrorIs(t, err, models.ErrInvalidName)
		assert.True(t, thumb.closed)
	})

	t.Run("target exists", func(t *testing.T) {
		require.NoError(t, fsys.MkdirAll(fsys.Join(testRoot, "1_b"), dirPerm))
		defer func() { require.NoError(t, removeAll(fsys, fsys.Join(testRoot, "1_b"))) }()

		thumb := stream("x")
		_, err := cats.Add(models.MustName("b"), thumb)
		assert.ErrorIs(t, err, ErrExists)
		assert.True(t, thumb.closed)
	})

	t.Run("read error", func(t *testing.T) {
		thumb := &failingReader{}
		_, err := cats.Add(models.MustName("c"), thumb)
		assert.ErrorIs(t, err, ErrStorage)
		assert.True(t, thumb.closed)
		assert.Equal(t, []string{"0_a"}, listDir(t, fsys, testRoot))
	})

	t.Run("nil stream", func(t *testing.T) {
		_, err := cats.Add(models.MustName("d"), nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	assert.Equal(t, 1, cats.Size())
}

func TestCategoriesGetAndFind(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b")

	got, err := cats.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name().String())

	_, err = cats.Get(2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = cats.Get(-1)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := cats.Find(models.MustName("a"))
	require.NoError(t, err)
	assert.Equal(t, 0, found.Position())

	_, err = cats.Find(models.MustName("zzz"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRename_SameNameIsNoop(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b")
	cat, err := cats.Get(1)
	require.NoError(t, err)

	renamed, err := cat.Rename(models.MustName("b"))
	require.NoError(t, err)
	assert.Same(t, cat, renamed)
	assert.True(t, cat.Equal(renamed))
	assert.Equal(t, []string{"0_a", "1_b"}, listDir(t, fsys, testRoot))
}

func TestCategoriesRename(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		cats := seedBoard(t, fsys, "a", "b")
		cat, err := cats.Get(1)
		require.NoError(t, err)
		seedImages(t, cat, "x")

		renamed, err := cats.Rename(cat, models.MustName("Drinks"))
		require.NoError(t, err)
		assert.Equal(t, 1, renamed.Position())
		assert.Equal(t, "Drinks", renamed.Name().String())
		assert.Equal(t, []string{"0_a", "1_Drinks"}, listDir(t, fsys, testRoot))
		assert.Equal(t, []string{"a", "Drinks"}, categoryNames(cats))

		imgs, err := renamed.Images()
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, imageNames(imgs))
	})
}

func TestCategoriesRename_NotMember(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a")
	dir := mkCategory(t, fsys, "7_stranger")
	stranger, err := NewCategory(fsys, dir)
	require.NoError(t, err)

	_, err = cats.Rename(stranger, models.MustName("b"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoriesDelete_Organizes(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		cats := seedBoard(t, fsys, "a", "b", "c", "d")
		list := cats.List()

		require.NoError(t, cats.Delete([]*Category{list[1], list[3]}))
		assert.Equal(t, []string{"a", "c"}, categoryNames(cats))
		assertContiguousCategories(t, cats)
		assert.Equal(t, []string{"0_a", "1_c"}, listDir(t, fsys, testRoot))
	})
}

func TestCategoriesDelete_NotMemberTouchesNothing(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b")
	other := memRoot(t)
	strangers := seedBoard(t, other, "z")

	err := cats.Delete([]*Category{cats.List()[0], strangers.List()[0]})
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"0_a", "1_b"}, listDir(t, fsys, testRoot))
}

func TestCategoriesOrganize_DropsCorruptEntries(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		mkCategory(t, fsys, "0_a")
		mkCategory(t, fsys, "x_corrupt")
		mkCategory(t, fsys, "5_b")
		mkCategory(t, fsys, "9_c")
		mkCategory(t, fsys, "3_")
		writeFile(t, fsys, fsys.Join(testRoot, "stray.txt"), "junk")

		_, err := NewCategories(fsys, testRoot)
		require.Error(t, err)

		cats, err := Recover(fsys, testRoot)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, categoryNames(cats))
		assertContiguousCategories(t, cats)
		assert.Equal(t, []string{"0_a", "1_b", "2_c"}, listDir(t, fsys, testRoot))
		assert.Equal(t, "thumb-9_c", readFile(t, fsys, cats.List()[2].ThumbnailPath()))
	})
}

func TestCategoriesOrganize_DropsCategoryWithoutThumbnail(t *testing.T) {
	backends(t, func(t *testing.T, fsys billy.Filesystem) {
		mkCategory(t, fsys, "0_a")
		// Left behind by an add that stopped before the thumbnail was renamed.
		half := fsys.Join(testRoot, "1_b")
		require.NoError(t, fsys.MkdirAll(half, dirPerm))
		writeFile(t, fsys, fsys.Join(half, ThumbnailName+".x.part"), "partial")
		mkCategory(t, fsys, "2_c")

		_, err := NewCategories(fsys, testRoot)
		require.ErrorIs(t, err, ErrMissingThumbnail)

		cats, err := Recover(fsys, testRoot)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, categoryNames(cats))
		assert.Equal(t, []string{"0_a", "1_c"}, listDir(t, fsys, testRoot))
		assert.False(t, exist(t, fsys, half))
	})
}

func TestCategoriesOrganize_SparseAndNegativePositions(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "-1_z")
	mkCategory(t, fsys, "0_a")
	mkCategory(t, fsys, "5_b")
	mkCategory(t, fsys, "900_c")

	cats, err := Recover(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "b", "c"}, categoryNames(cats))
	assert.Equal(t, []string{"0_z", "1_a", "2_b", "3_c"}, listDir(t, fsys, testRoot))
}

func TestCategoriesOrganize_TiesBrokenByName(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "1_b")
	mkCategory(t, fsys, "1_a")

	cats, err := Recover(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, categoryNames(cats))
}

func TestCategoriesOrganize_Idempotent(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "4_a")
	mkCategory(t, fsys, "8_b")

	cats, err := Recover(fsys, testRoot)
	require.NoError(t, err)
	first := listDir(t, fsys, testRoot)

	require.NoError(t, cats.Organize())
	assert.Equal(t, first, listDir(t, fsys, testRoot))
	assert.Equal(t, []string{"a", "b"}, categoryNames(cats))
}

func TestCategoriesOrganize_ClosesGaps(t *testing.T) {
	fsys := memRoot(t)
	mkCategory(t, fsys, "0_a")
	mkCategory(t, fsys, "2_b")
	mkCategory(t, fsys, "5_c")

	cats, err := Recover(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"0_a", "1_b", "2_c"}, listDir(t, fsys, testRoot))
	assertContiguousCategories(t, cats)
}

func TestCategoriesRearrange(t *testing.T) {
	tests := []struct {
		name      string
		selection []int
		target    int
		want      []string
	}{
		{"one after", []int{1}, 3, []string{"a", "c", "d", "b", "e"}},
		{"block to front", []int{3, 4}, 0, []string{"d", "e", "a", "b", "c"}},
		{"adjacent before", []int{1}, 0, []string{"b", "a", "c", "d", "e"}},
		{"straddle", []int{0, 4}, 2, []string{"b", "c", "a", "e", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backends(t, func(t *testing.T, fsys billy.Filesystem) {
				cats := seedBoard(t, fsys, "a", "b", "c", "d", "e")
				list := cats.List()
				selection := make([]*Category, len(tt.selection))
				for i, k := range tt.selection {
					selection[i] = list[k]
				}

				require.NoError(t, cats.Rearrange(selection, list[tt.target]))
				assert.Equal(t, tt.want, categoryNames(cats))
				assertContiguousCategories(t, cats)

				want := make([]string, len(tt.want))
				for i, n := range tt.want {
					want[i] = CategoryFileName(i, models.MustName(n))
				}
				assert.Equal(t, want, listDir(t, fsys, testRoot))

				reloaded, err := NewCategories(fsys, testRoot)
				require.NoError(t, err)
				assert.Equal(t, tt.want, categoryNames(reloaded))
			})
		})
	}
}

func TestCategoriesRearrange_CarriesContents(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b", "c")
	seedImages(t, cats.List()[0], "apple", "pear")

	list := cats.List()
	require.NoError(t, cats.Rearrange([]*Category{list[0]}, list[2]))

	moved, err := cats.Find(models.MustName("a"))
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Position())
	imgs, err := moved.Images()
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "pear"}, imageNames(imgs))
}

func TestCategoriesRearrange_InvalidArguments(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b", "c")
	list := cats.List()
	before := listDir(t, fsys, testRoot)

	err := cats.Rearrange([]*Category{list[1]}, list[1])
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = cats.Rearrange(nil, list[0])
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = cats.Rearrange([]*Category{list[2], list[1]}, list[0])
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = cats.Rearrange([]*Category{list[1]}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, before, listDir(t, fsys, testRoot))
	assert.Equal(t, []string{"a", "b", "c"}, categoryNames(cats))
}

func TestCategoryReplaceThumbnail(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a")
	cat := cats.List()[0]

	r := stream("new thumb")
	require.NoError(t, cat.ReplaceThumbnail(r))
	assert.True(t, r.closed)

	rc, err := cat.OpenThumbnail()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "new thumb", string(data))
}

func TestCategoryCompareAndString(t *testing.T) {
	fsys := memRoot(t)
	cats := seedBoard(t, fsys, "a", "b")
	list := cats.List()

	assert.Negative(t, list[0].Compare(list[1]))
	assert.Positive(t, list[1].Compare(list[0]))
	assert.Zero(t, list[0].Compare(list[0]))
	assert.Equal(t, "1 b", list[1].String())
	assert.False(t, list[0].Equal(list[1]))
}
