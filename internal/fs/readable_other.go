//go:build !unix

package fs

import "os"

func accessible(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
