package dupes

import (
	"io"
	"io/fs"
)

// FilesystemManager is the engine's view of the filesystem.
type FilesystemManager interface {
	// ReadDir returns the entries of a directory sorted by name. Entries
	// are not followed: a symlink reports ModeSymlink.
	ReadDir(path string) ([]fs.FileInfo, error)
	// Stat follows symlinks.
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
	// Readable reports whether the current user may read path.
	Readable(path string) bool
}

// Matcher excludes paths from a scan. The path is relative to the scan root.
type Matcher interface {
	Match(relativePath string) bool
}
