// Package listing reads directories into annotated entries: file kind,
// permission string, owner/group names and modification time.
package listing

import (
	"os"
	"strings"
	"time"
)

// Kind classifies a directory entry for styling purposes
type Kind int

const (
	KindFile Kind = iota
	KindExec
	KindDir
	KindSymlink
	KindBrokenSymlink
	KindOther
)

// Entry is a single directory entry with everything the renderer needs
type Entry struct {
	Name       string
	Path       string
	Kind       Kind
	LinkTarget string
	Size       int64
	ModTime    time.Time
	Mode       string
	Owner      string
	Group      string
}

// Hidden reports whether the entry is a dotfile
func (e Entry) Hidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// modeString renders the classic ls permission column, including
// setuid/setgid (s/S) and sticky (t/T) markers.
func modeString(mode os.FileMode) string {
	var b strings.Builder
	b.Grow(10)

	switch {
	case mode.IsDir():
		b.WriteByte('d')
	case mode&os.ModeSymlink != 0:
		b.WriteByte('l')
	case mode.IsRegular():
		b.WriteByte('-')
	default:
		b.WriteByte('?')
	}

	perm := mode.Perm()

	writeTriplet := func(r, w, x os.FileMode, special bool, set, unset byte) {
		if perm&r != 0 {
			b.WriteByte('r')
		} else {
			b.WriteByte('-')
		}
		if perm&w != 0 {
			b.WriteByte('w')
		} else {
			b.WriteByte('-')
		}
		switch {
		case perm&x != 0 && special:
			b.WriteByte(set)
		case perm&x != 0:
			b.WriteByte('x')
		case special:
			b.WriteByte(unset)
		default:
			b.WriteByte('-')
		}
	}

	writeTriplet(0o400, 0o200, 0o100, mode&os.ModeSetuid != 0, 's', 'S')
	writeTriplet(0o040, 0o020, 0o010, mode&os.ModeSetgid != 0, 's', 'S')
	writeTriplet(0o004, 0o002, 0o001, mode&os.ModeSticky != 0, 't', 'T')

	return b.String()
}
