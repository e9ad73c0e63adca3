//go:build unix

package fs

import "golang.org/x/sys/unix"

func accessible(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}
