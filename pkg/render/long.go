package render

import (
	"strconv"
	"strings"

	"github.com/nobel-von-it/lss/pkg/listing"
)

const timeLayout = "Jan _2 15:04"

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// Long renders the entries in ls -l style: mode, owner, group, size,
// modification time and the styled name, with all columns aligned.
func Long(entries []listing.Entry, humanize bool, styler *Styler) string {
	sizes := make([]string, len(entries))
	var ownerWidth, groupWidth, sizeWidth int

	for idx, entry := range entries {
		if humanize {
			sizes[idx] = HumanSize(entry.Size)
		} else {
			sizes[idx] = strconv.FormatInt(entry.Size, 10)
		}

		if len(entry.Owner) > ownerWidth {
			ownerWidth = len(entry.Owner)
		}
		if len(entry.Group) > groupWidth {
			groupWidth = len(entry.Group)
		}
		if len(sizes[idx]) > sizeWidth {
			sizeWidth = len(sizes[idx])
		}
	}

	lines := make([]string, len(entries))
	for idx, entry := range entries {
		var name string
		if entry.LinkTarget != "" {
			styled, _ := styler.Name(entry, false)
			name = styled + " -> " + entry.LinkTarget
		} else {
			name, _ = styler.Name(entry, true)
		}

		lines[idx] = strings.Join([]string{
			entry.Mode,
			padLeft(entry.Owner, ownerWidth),
			padLeft(entry.Group, groupWidth),
			padLeft(sizes[idx], sizeWidth),
			entry.ModTime.Format(timeLayout),
			name,
		}, " ")
	}

	return strings.Join(lines, "\n")
}
