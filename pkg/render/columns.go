package render

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nobel-von-it/lss/pkg/listing"
)

// TerminalWidth returns the width of the terminal attached to stdout, or 80
// when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 1 {
		return 80
	}
	return width
}

type cell struct {
	text  string
	width int
}

// Short renders the entries for the default format: a single space-joined
// line when everything fits, otherwise names packed column-major into the
// given width. Widths are computed on the plain names so color escapes
// don't break the alignment.
func Short(entries []listing.Entry, termWidth int, styler *Styler) string {
	if len(entries) == 0 {
		return ""
	}

	cells := make([]cell, len(entries))
	total := len(entries) - 1
	maxWidth := 1
	for idx, entry := range entries {
		text, width := styler.Name(entry, true)
		cells[idx] = cell{text: text, width: width}

		total += width
		if width > maxWidth {
			maxWidth = width
		}
	}

	if total <= termWidth {
		parts := make([]string, len(cells))
		for idx, c := range cells {
			parts[idx] = c.text
		}
		return strings.Join(parts, " ")
	}

	colWidth := maxWidth + 2
	maxCols := termWidth / colWidth
	if maxCols < 1 {
		maxCols = 1
	}
	rows := (len(cells) + maxCols - 1) / maxCols

	var output strings.Builder
	for row := 0; row < rows; row++ {
		line := strings.Builder{}

		for col := 0; col < maxCols; col++ {
			idx := col*rows + row
			if idx >= len(cells) {
				continue
			}

			c := cells[idx]
			line.WriteString(c.text)
			line.WriteString(strings.Repeat(" ", colWidth-c.width))
		}

		output.WriteString(strings.TrimRight(line.String(), " "))
		output.WriteByte('\n')
	}

	return strings.TrimRight(output.String(), "\n")
}
