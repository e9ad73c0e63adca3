package testutil

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"

	"dupcheck/internal/dupes"
	dfs "dupcheck/internal/fs"
)

// MockFilesystemManager is an in-memory filesystem that counts opens and
// can be told to fail reads or removals for chosen paths.
type MockFilesystemManager struct {
	*dfs.FilesystemManager

	mu          sync.Mutex
	opens       map[string]int
	unreadable  map[string]bool
	undeletable map[string]bool
	modTime     time.Time
}

func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		FilesystemManager: dfs.NewMemFilesystemManager(),
		opens:             make(map[string]int),
		unreadable:        make(map[string]bool),
		undeletable:       make(map[string]bool),
		modTime:           time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// AddFile creates a file and any missing parent directories.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	fsys := m.Afero()
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(fmt.Sprintf("mkdir %s: %v", filepath.Dir(path), err))
	}
	if err := afero.WriteFile(fsys, path, content, 0o644); err != nil {
		panic(fmt.Sprintf("write %s: %v", path, err))
	}
	if err := fsys.Chtimes(path, m.modTime, m.modTime); err != nil {
		panic(fmt.Sprintf("chtimes %s: %v", path, err))
	}
}

// AddDirectory creates a directory and its parents.
func (m *MockFilesystemManager) AddDirectory(path string) {
	if err := m.Afero().MkdirAll(path, 0o755); err != nil {
		panic(fmt.Sprintf("mkdir %s: %v", path, err))
	}
}

// Exists reports whether path is present.
func (m *MockFilesystemManager) Exists(path string) bool {
	ok, _ := afero.Exists(m.Afero(), path)
	return ok
}

// DenyRead makes Open fail and Readable return false for path.
func (m *MockFilesystemManager) DenyRead(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unreadable[path] = true
}

// DenyRemove makes Remove fail for path.
func (m *MockFilesystemManager) DenyRemove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undeletable[path] = true
}

// Opens returns how many times path was opened.
func (m *MockFilesystemManager) Opens(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[path]
}

// ResetOpens zeroes the open counters.
func (m *MockFilesystemManager) ResetOpens() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens = make(map[string]int)
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	m.opens[path]++
	denied := m.unreadable[path]
	m.mu.Unlock()
	if denied {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}
	return m.FilesystemManager.Open(path)
}

func (m *MockFilesystemManager) Readable(path string) bool {
	m.mu.Lock()
	denied := m.unreadable[path]
	m.mu.Unlock()
	return !denied && m.FilesystemManager.Readable(path)
}

func (m *MockFilesystemManager) Remove(path string) error {
	m.mu.Lock()
	denied := m.undeletable[path]
	m.mu.Unlock()
	if denied {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrPermission}
	}
	return m.FilesystemManager.Remove(path)
}

var (
	_ dupes.FilesystemManager = (*dfs.FilesystemManager)(nil)
	_ dupes.FilesystemManager = (*MockFilesystemManager)(nil)
)
