// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for categories, images, and summaries

package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/smilemeback/smileback/internal/storage"
)

// FormatCategory formats a category for a single-line listing.
func FormatCategory(cat *storage.Category) string {
	if cat == nil {
		return color.New(color.Faint).Sprint("(no category)")
	}
	return fmt.Sprintf("%s %s",
		color.New(color.Faint).Sprintf("%3d", cat.Position()),
		color.GreenString(cat.Name().String()))
}

// FormatImage formats an image for a single-line listing.
func FormatImage(img *storage.Image) string {
	if img == nil {
		return color.New(color.Faint).Sprint("(no image)")
	}
	return fmt.Sprintf("  %s %s",
		color.New(color.Faint).Sprintf("%3d", img.Position()),
		color.CyanString(img.Name().String()))
}

// FormatCount returns "1 image" or "n images".
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
