// Package fs provides the filesystem the scanner reads and deletes through.
package fs

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/afero"
)

// FilesystemManager reads directories and files through an afero.Fs.
type FilesystemManager struct {
	fs afero.Fs
	// native is set when fs is the host filesystem and permission checks
	// can ask the kernel directly.
	native bool
}

// NewOSFilesystemManager operates on the real filesystem.
func NewOSFilesystemManager() *FilesystemManager {
	return &FilesystemManager{fs: afero.NewOsFs(), native: true}
}

// NewMemFilesystemManager operates on an empty in-memory filesystem.
func NewMemFilesystemManager() *FilesystemManager {
	return &FilesystemManager{fs: afero.NewMemMapFs()}
}

// NewFilesystemManager wraps an arbitrary afero.Fs.
func NewFilesystemManager(fsys afero.Fs) *FilesystemManager {
	return &FilesystemManager{fs: fsys}
}

// Afero exposes the underlying filesystem, mostly for test setup.
func (m *FilesystemManager) Afero() afero.Fs {
	return m.fs
}

// ReadDir lists a directory sorted by name without following symlinks.
func (m *FilesystemManager) ReadDir(path string) ([]fs.FileInfo, error) {
	entries, err := afero.ReadDir(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return entries, nil
}

// Stat returns file info, following symlinks.
func (m *FilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return m.fs.Stat(path)
}

// Open opens a regular file for reading.
func (m *FilesystemManager) Open(path string) (io.ReadCloser, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("cannot open directory as file: %s", path)
	}
	return f, nil
}

func (m *FilesystemManager) Remove(path string) error {
	return m.fs.Remove(path)
}

// Readable reports whether path can be opened for reading.
func (m *FilesystemManager) Readable(path string) bool {
	if m.native {
		return accessible(path)
	}
	f, err := m.fs.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
