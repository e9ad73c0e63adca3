package dupes

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
)

// SetDirectory makes path the current directory without listing it. A
// relative path is resolved against the current directory.
func (e *Engine) SetDirectory(path string) error {
	abs, err := e.resolve(path)
	if err != nil {
		return err
	}
	if err := e.checkDirectory(abs); err != nil {
		return err
	}
	e.mu.Lock()
	e.dir = abs
	e.mu.Unlock()
	return nil
}

// ListDirectory replaces the consumer's rows with the entries of path and
// makes it the current directory. Directories come first, then files, then
// anything else, each in name order. A ".." row leads unless path is the
// filesystem root.
func (e *Engine) ListDirectory(path string) error {
	if e.State() == Scanning {
		return ErrScanInProgress
	}
	abs, err := e.resolve(path)
	if err != nil {
		return err
	}
	if err := e.checkDirectory(abs); err != nil {
		e.notifier.Progress(err.Error(), true, Blue)
		return err
	}
	entries, err := e.fsmgr.ReadDir(abs)
	if err != nil {
		e.notifier.Progress(fmt.Sprintf("cannot open %s", abs), true, Blue)
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, abs, err)
	}

	e.mu.Lock()
	e.dir = abs
	e.mu.Unlock()

	e.notifier.RowsCleared()
	if filepath.Dir(abs) != abs {
		e.notifier.RowAdded(Columns{ColName: ".."}, NoColor)
	}
	for _, cols := range e.listingRows(abs, entries) {
		e.notifier.RowAdded(cols, NoColor)
	}
	e.notifier.ViewRefreshRequested()
	e.notifier.Progress(fmt.Sprintf("opened %s", abs), true, Blue)
	return nil
}

func (e *Engine) resolve(path string) (string, error) {
	if path == "" {
		path = e.Directory()
	}
	if path == "" {
		return "", fmt.Errorf("%w: no directory selected", ErrNotDirectory)
	}
	if !filepath.IsAbs(path) {
		base := e.Directory()
		if base == "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return "", fmt.Errorf("resolving %s: %w", path, err)
			}
			return abs, nil
		}
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path), nil
}

func (e *Engine) checkDirectory(abs string) error {
	info, err := e.fsmgr.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	if !e.fsmgr.Readable(abs) {
		return fmt.Errorf("%w: %s", ErrUnreadable, abs)
	}
	return nil
}

type listingKind int

const (
	listingDirectory listingKind = iota
	listingFile
	listingOther
)

// listingRows classifies entries, following symlinks to their targets.
func (e *Engine) listingRows(dir string, entries []fs.FileInfo) []Columns {
	type entry struct {
		kind listingKind
		cols Columns
	}
	rows := make([]entry, 0, len(entries))
	for _, info := range entries {
		if e.hidden(info.Name()) {
			continue
		}
		path := filepath.Join(dir, info.Name())
		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := e.fsmgr.Stat(path)
			if err != nil {
				rows = append(rows, entry{listingOther, Columns{info.Name(), "", "", path, formatTime(info.ModTime())}})
				continue
			}
			info = target
		}
		switch {
		case info.IsDir():
			rows = append(rows, entry{listingDirectory, Columns{filepath.Base(path), KindDirectory, "", path, formatTime(info.ModTime())}})
		case info.Mode().IsRegular():
			rows = append(rows, entry{listingFile, Columns{filepath.Base(path), KindFile, strconv.FormatInt(info.Size(), 10), path, formatTime(info.ModTime())}})
		default:
			rows = append(rows, entry{listingOther, Columns{filepath.Base(path), "", "", path, formatTime(info.ModTime())}})
		}
	}

	slices.SortStableFunc(rows, func(a, b entry) int {
		return int(a.kind) - int(b.kind)
	})
	cols := make([]Columns, len(rows))
	for i, r := range rows {
		cols[i] = r.cols
	}
	return cols
}
