package listing

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Read collects the entries of the given directory. Symlinks are not
// followed; a link whose target can't be resolved or doesn't exist is
// reported as KindBrokenSymlink.
func Read(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read directory %s", dir)
	}

	result := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		info, err := dirEntry.Info()
		if err != nil {
			return nil, eris.Wrapf(err, "failed to stat %s", dirEntry.Name())
		}

		entry := Entry{
			Name:    dirEntry.Name(),
			Path:    filepath.Join(dir, dirEntry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    modeString(info.Mode()),
		}

		mode := info.Mode()
		switch {
		case mode.IsDir():
			entry.Kind = KindDir
		case mode&os.ModeSymlink != 0:
			target, err := os.Readlink(entry.Path)
			if err != nil {
				entry.Kind = KindBrokenSymlink
				break
			}

			entry.LinkTarget = target
			if _, err := os.Stat(entry.Path); err != nil {
				entry.Kind = KindBrokenSymlink
			} else {
				entry.Kind = KindSymlink
			}
		case mode.IsRegular():
			if mode.Perm()&0o111 != 0 {
				entry.Kind = KindExec
			} else {
				entry.Kind = KindFile
			}
		default:
			entry.Kind = KindOther
		}

		entry.Owner, entry.Group = ownerAndGroup(info)

		result = append(result, entry)
	}

	return result, nil
}

// FilterHidden drops dotfile entries unless showAll is set
func FilterHidden(entries []Entry, showAll bool) []Entry {
	if showAll {
		return entries
	}

	result := entries[:0]
	for _, entry := range entries {
		if !entry.Hidden() {
			result = append(result, entry)
		}
	}
	return result
}
