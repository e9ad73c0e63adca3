package dupes

import (
	"cmp"
	"slices"
)

// sortStable stable-sorts s with compare, calling check before every
// comparison. On error s is left exactly as it was.
func sortStable[T any](s []T, compare func(a, b T) int, check func() error) error {
	if len(s) < 2 {
		return nil
	}
	work := slices.Clone(s)
	if err := mergeSort(work, make([]T, len(s)), compare, check); err != nil {
		return err
	}
	copy(s, work)
	return nil
}

// mergeSort sorts s using buf, which must have the same length, as scratch.
func mergeSort[T any](s, buf []T, compare func(a, b T) int, check func() error) error {
	if len(s) < 2 {
		return nil
	}
	mid := len(s) / 2
	if err := mergeSort(s[:mid], buf[:mid], compare, check); err != nil {
		return err
	}
	if err := mergeSort(s[mid:], buf[mid:], compare, check); err != nil {
		return err
	}

	copy(buf, s)
	left, right := buf[:mid], buf[mid:]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if err := check(); err != nil {
			return err
		}
		if compare(right[j], left[i]) < 0 {
			s[k] = right[j]
			j++
		} else {
			s[k] = left[i]
			i++
		}
		k++
	}
	k += copy(s[k:], left[i:])
	copy(s[k:], right[j:])
	return nil
}

func (e *Engine) sortBySize() error {
	e.notifier.Progress("sorting files by size", true, NoColor)
	return sortStable(e.files, func(a, b FileRecord) int {
		return cmp.Compare(a.Size, b.Size)
	}, func() error {
		return e.check(0, 0)
	})
}
