package dupes

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// walk visits directories breadth first from the scan root. The queue head
// is the directory being listed and i0 is the child to continue from.
func (e *Engine) walk(i0 int) error {
	e.notifier.Progress("scanning directories", true, NoColor)
	if len(e.dirs) == 0 && len(e.files) == 0 {
		e.dirs = append(e.dirs, e.root)
	}

	for len(e.dirs) > 0 {
		dir := e.dirs[0]
		e.notifier.Progress(fmt.Sprintf("scanning %s", dir), false, NoColor)
		if err := e.check(i0, 0); err != nil {
			return err
		}

		entries, err := e.fsmgr.ReadDir(dir)
		if err != nil {
			e.logger.Warn("cannot list directory", "path", dir, "error", err)
		}
		entries = e.scannable(dir, entries)

		for i := i0; i < len(entries); i++ {
			e.notifier.Progress(fmt.Sprintf("scanning %s (%d%%)", dir, (i+1)*100/len(entries)), false, NoColor)
			if err := e.check(i, 0); err != nil {
				return err
			}
			path := filepath.Join(dir, entries[i].Name())
			if entries[i].IsDir() {
				e.dirs = append(e.dirs, path)
				continue
			}
			e.files = append(e.files, newFileRecord(path, entries[i], e.fsmgr.Readable(path)))
		}

		e.dirs = e.dirs[1:]
		i0 = 0
	}
	return nil
}

// scannable keeps directories and regular files, dropping symlinks, special
// files, hidden entries unless enabled, and ignored paths.
func (e *Engine) scannable(dir string, entries []fs.FileInfo) []fs.FileInfo {
	kept := make([]fs.FileInfo, 0, len(entries))
	for _, info := range entries {
		mode := info.Mode()
		if mode&fs.ModeSymlink != 0 || !(mode.IsDir() || mode.IsRegular()) {
			continue
		}
		if e.hidden(info.Name()) {
			continue
		}
		if e.matcher != nil {
			rel, err := filepath.Rel(e.root, filepath.Join(dir, info.Name()))
			if err == nil && e.matcher.Match(filepath.ToSlash(rel)) {
				continue
			}
		}
		kept = append(kept, info)
	}
	return kept
}

func (e *Engine) hidden(name string) bool {
	return !e.includeHidden && strings.HasPrefix(name, ".")
}
