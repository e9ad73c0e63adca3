package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFileName is read from the scan root for extra exclusion patterns.
const IgnoreFileName = ".dupcheckignore"

// IgnoreMatcher excludes paths by glob. A pattern without '/' is matched
// against the base name; a pattern with '/' is matched against the path
// relative to the scan root and also excludes everything below a match.
type IgnoreMatcher struct {
	names []string
	paths []string
}

// NewIgnoreMatcher builds a matcher. Blank lines and '#' comments are
// skipped, as are patterns that filepath.Match rejects.
func NewIgnoreMatcher(patterns []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			continue
		}
		if strings.Contains(p, "/") {
			m.paths = append(m.paths, strings.Trim(p, "/"))
		} else {
			m.names = append(m.names, p)
		}
	}
	return m
}

// Len is the number of usable patterns.
func (m *IgnoreMatcher) Len() int {
	return len(m.names) + len(m.paths)
}

// Match reports whether relativePath is excluded.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if relativePath == "" {
		return false
	}
	rel := filepath.ToSlash(relativePath)
	base := path.Base(rel)
	for _, p := range m.names {
		if ok, _ := path.Match(p, base); ok {
			return true
		}
	}
	for _, p := range m.paths {
		for prefix := rel; prefix != "." && prefix != "/"; prefix = path.Dir(prefix) {
			if ok, _ := path.Match(p, prefix); ok {
				return true
			}
		}
	}
	return false
}

// ReadIgnoreFile returns the raw lines of dir's ignore file, or nil when
// the file does not exist.
func (m *FilesystemManager) ReadIgnoreFile(dir string) ([]string, error) {
	f, err := m.fs.Open(filepath.Join(dir, IgnoreFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
