// Package ui renders host output: aligned tables for listings and a
// Bubble Tea progress view for warm-up runs.
package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// Table is a plain column layout. Widths are measured in terminal cells so
// wide runes in names stay aligned.
type Table struct {
	Headers []string
	Rows    [][]string
	// Styled enables the lipgloss header style.
	Styled bool
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	var b strings.Builder
	for i, h := range t.Headers {
		cell := h
		if t.Styled {
			cell = headerStyle.Render(h)
		}
		writeCell(&b, cell, runewidth.StringWidth(h), widths[i], i == len(t.Headers)-1)
	}
	b.WriteByte('\n')
	for _, row := range t.Rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(&b, cell, runewidth.StringWidth(cell), widths[i], i == len(widths)-1)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCell(b *strings.Builder, cell string, cellWidth, width int, last bool) {
	b.WriteString(cell)
	if last {
		return
	}
	b.WriteString(strings.Repeat(" ", width-cellWidth+2))
}

// Truncate shortens value to width terminal cells, marking the cut with
// "...".
func Truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
