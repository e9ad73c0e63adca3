package dupes

import (
	"fmt"
	"strings"
)

func hashProgress(count int) string {
	return fmt.Sprintf("hashing files (%d)", count)
}

// calculateHashes digests every readable file that shares its size with a
// neighbour. count is the number hashed so far and only feeds progress.
func (e *Engine) calculateHashes(i0, count int) error {
	e.notifier.Progress(hashProgress(count), true, NoColor)
	buf := make([]byte, 32*1024)

	for i := i0; i < len(e.files); i++ {
		if err := e.check(i, count); err != nil {
			return err
		}
		f := &e.files[i]
		if i > 0 && e.files[i-1].Size == f.Size {
			f.SizeGroupStart = e.files[i-1].SizeGroupStart
		} else {
			f.SizeGroupStart = i
		}
		if f.Skip || !e.sharesSize(i) {
			continue
		}

		count++
		e.notifier.Progress(hashProgress(count), false, NoColor)
		sum, err := e.hashFile(f.Path, buf)
		if err != nil {
			e.logger.Warn("cannot hash file", "path", f.Path, "error", err)
			f.Skip = true
			continue
		}
		f.Hash = sum
	}
	return nil
}

func (e *Engine) sharesSize(i int) bool {
	size := e.files[i].Size
	return (i > 0 && e.files[i-1].Size == size) || (i+1 < len(e.files) && e.files[i+1].Size == size)
}

func (e *Engine) hashFile(path string, buf []byte) (string, error) {
	r, err := e.fsmgr.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return e.algorithm.Sum(r, buf)
}

// sortByHash orders each run of equal-sized files by digest. The run is
// sorted when i reaches its last member.
func (e *Engine) sortByHash(i0 int) error {
	n := len(e.files)
	e.notifier.Progress("sorting files by hash (0%)", true, NoColor)

	for i := i0; i < n; i++ {
		e.notifier.Progress(fmt.Sprintf("sorting files by hash (%d%%)", (i+1)*100/n), false, NoColor)
		if err := e.check(i, 0); err != nil {
			return err
		}
		start := e.files[i].SizeGroupStart
		if start == i || (i+1 < n && e.files[i+1].Size == e.files[i].Size) {
			continue
		}
		err := sortStable(e.files[start:i+1], func(a, b FileRecord) int {
			return strings.Compare(a.Hash, b.Hash)
		}, func() error {
			return e.check(i, 0)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
