package components

import (
	"strings"

	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Column is a fixed-width table column.
type Column struct {
	Title string
	Width int
}

// CellStyle picks the style for a cell. A nil CellStyle uses
// styles.TableCell for every cell.
type CellStyle func(col int, value string) lipgloss.Style

// Table renders rows under a header. Cells are cut to the column width.
// cursor highlights one row; pass -1 for none.
func Table(cols []Column, rows [][]string, cursor int, cellStyle CellStyle) string {
	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = styles.TableHeader.Width(c.Width + 2).Render(Fit(c.Title, c.Width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for r, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			style := styles.TableCell
			switch {
			case r == cursor:
				style = styles.TableSelectedRow
			case cellStyle != nil:
				style = cellStyle(i, value).Padding(0, 1)
			}
			cells[i] = style.Width(c.Width + 2).Render(Fit(value, c.Width))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

// Fit truncates s to width cells, marking the cut with an ellipsis.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
