package dupes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeFormat renders modification times in result and listing rows.
const TimeFormat = "2 January 2006, 15:04:05"

func formatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

// sortByName orders the members of each group by file name.
func (e *Engine) sortByName(i0 int) error {
	n := len(e.groups)
	e.notifier.Progress("sorting duplicates by name (0%)", true, NoColor)

	for i := i0; i < n; i++ {
		e.notifier.Progress(fmt.Sprintf("sorting duplicates by name (%d%%)", (i+1)*100/n), false, NoColor)
		if err := e.check(i, 0); err != nil {
			return err
		}
		err := sortStable(e.groups[i], func(a, b int) int {
			return strings.Compare(e.files[a].Name, e.files[b].Name)
		}, func() error {
			return e.check(i, 0)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// showResults emits one row per group member followed by a separator. The
// first member is kept and the rest are marked for deletion.
func (e *Engine) showResults(i0, j0 int) error {
	n := len(e.groups)
	e.notifier.Progress("showing results (0%)", true, NoColor)

	for i := i0; i < n; i++ {
		e.notifier.Progress(fmt.Sprintf("showing results (%d%%)", (i+1)*100/n), false, NoColor)
		if err := e.check(i, j0); err != nil {
			return err
		}
		for j := j0; j < len(e.groups[i]); j++ {
			if err := e.check(i, j); err != nil {
				return err
			}
			f := &e.files[e.groups[i][j]]
			state, highlight := StateKeep, NoColor
			if j > 0 {
				state, highlight = StateDelete, Red
			}
			e.notifier.RowAdded(Columns{f.Name, state, strconv.FormatInt(f.Size, 10), f.Path, formatTime(f.ModTime)}, highlight)
		}
		j0 = 0
		e.notifier.RowAdded(Columns{}, NoColor)
	}
	e.notifier.ViewRefreshRequested()
	return nil
}
