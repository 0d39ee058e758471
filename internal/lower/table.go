package lower

import (
	"strings"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/ir"
)

// lowerTable lays a table out using box-drawing glyphs and honors
// per-column alignment, per spec.md §4.3. A cell wider than its column is
// truncated with a trailing ellipsis; cells are not wrapped onto further
// lines.
func (l *Lowerer) lowerTable(c *document.Component) ([]ir.Op, error) {
	totalWidth := l.columnsFor(ir.FontA)
	cols := c.Columns
	if len(cols) == 0 {
		cols = make([]document.TableColumn, len(c.Headers))
		for i, h := range c.Headers {
			cols[i] = document.TableColumn{Header: h}
		}
	}
	widths := columnWidths(cols, totalWidth)
	bordered := c.Border != "" && c.Border != "none"

	var ops []ir.Op
	line := func(s string) {
		ops = append(ops, ir.Text(s), ir.Newline())
	}

	if bordered {
		line(borderRow(widths, '┌', '┬', '┐'))
	}
	line(dataRow(headerTexts(cols), cols, widths, bordered))
	if bordered {
		line(borderRow(widths, '├', '┼', '┤'))
	}
	for i, row := range c.Rows {
		line(dataRow(row, cols, widths, bordered))
		if bordered && c.RowSeparators && i < len(c.Rows)-1 {
			line(borderRow(widths, '├', '┼', '┤'))
		}
	}
	if bordered {
		line(borderRow(widths, '└', '┴', '┘'))
	}
	return ops, nil
}

func headerTexts(cols []document.TableColumn) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func columnWidths(cols []document.TableColumn, total int) []int {
	n := len(cols)
	if n == 0 {
		return nil
	}
	widths := make([]int, n)
	fixed, unassigned := 0, 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			unassigned++
		}
	}
	if unassigned > 0 {
		share := (total - fixed) / unassigned
		if share < 3 {
			share = 3
		}
		for i, c := range cols {
			if c.Width <= 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func dataRow(cells []string, cols []document.TableColumn, widths []int, bordered bool) string {
	var b strings.Builder
	if bordered {
		b.WriteRune('│')
	}
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		align := document.AlignLeft
		if i < len(cols) && cols[i].Align != "" {
			align = cols[i].Align
		}
		b.WriteString(padCell(cell, w, align))
		if bordered {
			b.WriteRune('│')
		} else if i < len(widths)-1 {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func padCell(s string, w int, align document.Align) string {
	if len(s) > w {
		if w <= 1 {
			return s[:w]
		}
		return s[:w-1] + "…"
	}
	pad := w - len(s)
	switch align {
	case document.AlignRight:
		return strings.Repeat(" ", pad) + s
	case document.AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

func borderRow(widths []int, left, mid, right rune) string {
	var b strings.Builder
	b.WriteRune(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w))
		if i < len(widths)-1 {
			b.WriteRune(mid)
		}
	}
	b.WriteRune(right)
	return b.String()
}
