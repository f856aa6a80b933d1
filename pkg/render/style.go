package render

import (
	"github.com/mitchellh/colorstring"

	"github.com/nobel-von-it/lss/pkg/listing"
)

type style struct {
	color  string
	suffix string
}

var kindStyles = map[listing.Kind]style{
	listing.KindExec:          {color: "green"},
	listing.KindDir:           {color: "blue", suffix: "/"},
	listing.KindSymlink:       {color: "cyan", suffix: "@"},
	listing.KindBrokenSymlink: {color: "red", suffix: "!"},
}

// Styler colorizes entry names. With color disabled it degrades to plain
// names so output stays pipe-friendly.
type Styler struct {
	colorize colorstring.Colorize
}

func NewStyler(color bool) *Styler {
	return &Styler{
		colorize: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Reset:   true,
			Disable: !color,
		},
	}
}

// Name returns the styled entry name and its visible width. The kind suffix
// is appended outside the color escape so it stays uncolored.
func (s *Styler) Name(entry listing.Entry, withSuffix bool) (string, int) {
	st := kindStyles[entry.Kind]

	name := entry.Name
	width := len(name)
	if st.color != "" {
		name = s.colorize.Color("[" + st.color + "]" + name)
	}

	if withSuffix && st.suffix != "" {
		name += st.suffix
		width++
	}

	return name, width
}
