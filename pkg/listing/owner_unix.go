//go:build unix

package listing

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// ownerAndGroup resolves the owner and group names for the entry. Ids
// without a passwd/group entry are reported numerically, like ls does.
func ownerAndGroup(info os.FileInfo) (string, string) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", ""
	}

	uid := strconv.FormatUint(uint64(st.Uid), 10)
	gid := strconv.FormatUint(uint64(st.Gid), 10)

	owner := uid
	if u, err := user.LookupId(uid); err == nil {
		owner = u.Username
	}

	group := gid
	if g, err := user.LookupGroupId(gid); err == nil {
		group = g.Name
	}

	return owner, group
}
