package dupes

import "fmt"

// ToggleRow flips a result row between kept and marked for deletion and
// keeps the deletion total in step. Rows that are neither, such as
// separators, are ignored.
func (e *Engine) ToggleRow(row Row) error {
	e.mu.Lock()
	if e.state != Finished {
		e.mu.Unlock()
		return ErrNotFinished
	}
	var highlight Color
	switch row.State() {
	case StateKeep:
		row.SetState(StateDelete)
		e.ledger++
		highlight = Red
	case StateDelete:
		row.SetState(StateKeep)
		e.ledger--
		highlight = Black
	default:
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	e.notifier.RowRecolored(row, highlight)
	return nil
}

// DeleteMarked removes the file behind every row marked for deletion and
// returns how many were removed. A file that cannot be removed is reported
// and skipped; it does not stop the others.
func (e *Engine) DeleteMarked(rows []Row) (int, error) {
	e.mu.Lock()
	if e.state != Finished {
		e.mu.Unlock()
		return 0, ErrNotFinished
	}
	total := e.ledger
	run := e.lastRun
	e.mu.Unlock()
	if total <= 0 {
		return 0, ErrNothingToDelete
	}

	e.notifier.Progress("deleting files (0%)", true, Red)
	deleted := 0
	for _, row := range rows {
		if row == nil || row.State() != StateDelete {
			continue
		}
		e.notifier.Progress(fmt.Sprintf("deleting files (%d%%)", min(100, (deleted+1)*100/total)), false, Red)

		path := row.Path()
		err := e.fsmgr.Remove(path)
		e.recordDeletion(run, path, err)
		if err != nil {
			e.logger.Warn("cannot delete file", "path", path, "error", err)
			e.notifier.Progress(fmt.Sprintf("cannot delete %s", path), true, Orange)
			continue
		}
		e.logger.Info("file deleted", "path", path)
		deleted++
	}

	e.mu.Lock()
	e.ledger = max(0, e.ledger-deleted)
	e.mu.Unlock()

	e.notifier.Progress(fmt.Sprintf("deleted %d of %d files", deleted, total), true, NoColor)
	return deleted, nil
}

func (e *Engine) recordDeletion(run *ScanRun, path string, removeErr error) {
	d := &Deletion{Path: path, DeletedAt: e.clock.Now()}
	if run != nil {
		d.RunID = run.ID
	}
	if removeErr != nil {
		d.Err = removeErr.Error()
	}
	if err := e.journal.RecordDeletion(d); err != nil {
		e.logger.Warn("failed to record deletion", "path", path, "error", err)
	}
}
