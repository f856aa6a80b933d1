//go:build !unix

package listing

import "os"

func ownerAndGroup(info os.FileInfo) (string, string) {
	return "", ""
}
