// ABOUTME: Tests for copying a board between roots
// ABOUTME: Verifies order, content, counts, and the empty-destination rule

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyBoard(t *testing.T) {
	src := seedBoard(t, memRoot(t), "Fruit", "Drinks", "Toys")
	seedImages(t, src.List()[0], "apple", "pear")
	seedImages(t, src.List()[2], "ball")

	dstFS := osRoot(t)
	dst, err := NewCategories(dstFS, testRoot)
	require.NoError(t, err)

	summary, err := CopyBoard(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Categories)
	assert.Equal(t, 3, summary.Images)

	reloaded, err := NewCategories(dstFS, testRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fruit", "Drinks", "Toys"}, categoryNames(reloaded))

	fruit, err := reloaded.List()[0].Images()
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "pear"}, imageNames(fruit))
	assert.Equal(t, "pic-pear", content(t, fruit.List()[1].OpenPicture))
	assert.Equal(t, "thumb", content(t, reloaded.List()[1].OpenThumbnail))
}

func TestCopyBoard_DestinationMustBeEmpty(t *testing.T) {
	src := seedBoard(t, memRoot(t), "A")
	dst := seedBoard(t, memRoot(t), "B")

	_, err := CopyBoard(src, dst)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, []string{"B"}, categoryNames(dst))
}
