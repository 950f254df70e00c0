// ABOUTME: Copies a whole board from one categories root to another
// ABOUTME: Destination must be empty; content flows through the public Add operations

package storage

import (
	"fmt"
)

// CopySummary holds counts of copied entities.
type CopySummary struct {
	Categories int
	Images     int
}

// CopyBoard copies every category and image from src to dst, preserving
// order. dst must be empty. The two boards may live on different filesystems.
func CopyBoard(src, dst *Categories) (*CopySummary, error) {
	if dst.Size() != 0 {
		return nil, fmt.Errorf("%w: destination board %s is not empty", ErrInvalidArgument, dst.Root())
	}

	summary := &CopySummary{}
	for _, cat := range src.List() {
		thumb, err := cat.OpenThumbnail()
		if err != nil {
			return summary, err
		}
		copied, err := dst.Add(cat.Name(), thumb)
		if err != nil {
			return summary, fmt.Errorf("copy category %q: %w", cat.Name(), err)
		}
		summary.Categories++

		srcImages, err := cat.Images()
		if err != nil {
			return summary, fmt.Errorf("list images of %q: %w", cat.Name(), err)
		}
		dstImages, err := copied.Images()
		if err != nil {
			return summary, fmt.Errorf("open images of %q: %w", copied.Name(), err)
		}

		for _, img := range srcImages.List() {
			pic, err := img.OpenPicture()
			if err != nil {
				return summary, err
			}
			aud, err := img.OpenAudio()
			if err != nil {
				closeQuietly(pic)
				return summary, err
			}
			if _, err := dstImages.Add(img.Name(), pic, aud); err != nil {
				return summary, fmt.Errorf("copy image %q of %q: %w", img.Name(), cat.Name(), err)
			}
			summary.Images++
		}
	}
	return summary, nil
}
