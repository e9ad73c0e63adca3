package dupes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// groupDuplicates collects files of equal size and digest into groups.
// The inner scan is bounded by size alone, so a mismatching digest inside a
// size run does not end it.
func (e *Engine) groupDuplicates(i0, j0 int) error {
	n := len(e.files)
	e.notifier.Progress("grouping duplicates (0%)", true, NoColor)

	for i := i0; i < n; i++ {
		e.notifier.Progress(fmt.Sprintf("grouping duplicates (%d%%)", (i+1)*100/n), false, NoColor)
		fi := &e.files[i]
		if fi.Skip || fi.Hash == "" {
			continue
		}
		// A leader paused mid-scan resumes into its own open group.
		if fi.Duplicated && !e.leadsLastGroup(i) {
			continue
		}

		start := max(j0, i+1)
		j0 = 0
		for j := start; j < n && e.files[j].Size == fi.Size; j++ {
			if err := e.check(i, j); err != nil {
				return err
			}
			fj := &e.files[j]
			if fj.Skip || fj.Duplicated || !fi.matches(fj) {
				continue
			}

			same := true
			if e.verifying {
				var err error
				if same, err = e.sameContent(fi, fj, i, j); err != nil {
					return err
				}
			}
			if fi.Skip {
				break
			}
			if !same {
				continue
			}

			if !fi.Duplicated {
				fi.Duplicated = true
				e.groups = append(e.groups, DuplicateGroup{i})
			}
			fj.Duplicated = true
			last := len(e.groups) - 1
			e.groups[last] = append(e.groups[last], j)
		}
	}
	return nil
}

func (e *Engine) leadsLastGroup(i int) bool {
	return len(e.groups) > 0 && e.groups[len(e.groups)-1][0] == i
}

// sameContent compares two files block by block. A file that cannot be read
// in full, or that ends before the other, is marked Skip and the pair is
// reported as different. Only checkpoint interrupts are returned as errors.
func (e *Engine) sameContent(a, b *FileRecord, i, j int) (bool, error) {
	ra, err := e.fsmgr.Open(a.Path)
	if err != nil {
		e.logger.Warn("cannot open file for verification", "path", a.Path, "error", err)
		a.Skip = true
		return false, nil
	}
	defer ra.Close()
	rb, err := e.fsmgr.Open(b.Path)
	if err != nil {
		e.logger.Warn("cannot open file for verification", "path", b.Path, "error", err)
		b.Skip = true
		return false, nil
	}
	defer rb.Close()

	if e.blockA == nil {
		e.blockA = make([]byte, e.blockSize)
		e.blockB = make([]byte, e.blockSize)
	}

	for {
		if err := e.check(i, j); err != nil {
			return false, err
		}
		na, errA := readBlock(ra, e.blockA)
		nb, errB := readBlock(rb, e.blockB)
		if errA != nil {
			e.logger.Warn("cannot read file for verification", "path", a.Path, "error", errA)
			a.Skip = true
			return false, nil
		}
		if errB != nil {
			e.logger.Warn("cannot read file for verification", "path", b.Path, "error", errB)
			b.Skip = true
			return false, nil
		}
		if na != nb {
			short := a
			if nb < na {
				short = b
			}
			e.logger.Warn("file changed during verification", "path", short.Path)
			short.Skip = true
			return false, nil
		}
		if !bytes.Equal(e.blockA[:na], e.blockB[:nb]) {
			return false, nil
		}
		if na < len(e.blockA) {
			return true, nil
		}
	}
}

// readBlock fills buf, treating end of file as a short read.
func readBlock(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}
