// ABOUTME: Table rendering for board listings
// ABOUTME: Wraps go-pretty with the column layout used by list commands

package ui

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/smilemeback/smileback/internal/storage"
)

// CategoryRow is one line of the category table.
type CategoryRow struct {
	Category *storage.Category
	Images   int
	Modified string
}

// RenderTable renders rows under headers. Columns listed in rightAligned are
// aligned right.
func RenderTable(headers []string, rows [][]string, rightAligned ...int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		for _, c := range rightAligned {
			if c == i {
				align = text.AlignRight
			}
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// CategoryTable renders the category listing.
func CategoryTable(rows []CategoryRow) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.Category.Position()),
			r.Category.Name().String(),
			strconv.Itoa(r.Images),
			r.Modified,
		})
	}
	return RenderTable([]string{"#", "Category", "Images", "Modified"}, data, 0, 2)
}

// ImageTable renders the images of one category.
func ImageTable(images []*storage.Image) string {
	data := make([][]string, 0, len(images))
	for _, img := range images {
		data = append(data, []string{
			strconv.Itoa(img.Position()),
			img.Name().String(),
		})
	}
	return RenderTable([]string{"#", "Image"}, data, 0)
}
