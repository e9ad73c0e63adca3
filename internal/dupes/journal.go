package dupes

import "time"

// RunStatus is the recorded outcome of a scan run.
type RunStatus string

const (
	RunRunning  RunStatus = "running"
	RunFinished RunStatus = "finished"
	RunCanceled RunStatus = "canceled"
)

// ScanRun is the journal entry for one scan, from fresh start to finish or cancel.
type ScanRun struct {
	ID         string
	Root       string
	Algorithm  string
	Verified   bool
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    Summary
}

// Deletion is the journal entry for one attempted delete.
type Deletion struct {
	RunID     string
	Path      string
	DeletedAt time.Time
	// Err is empty when the file was removed.
	Err string
}

// Journal keeps a history of scans and deletions.
type Journal interface {
	RecordScanStarted(run *ScanRun) error
	RecordScanEnded(run *ScanRun) error
	RecordDeletion(d *Deletion) error
	// RecentScanRuns returns up to limit runs, newest first.
	RecentScanRuns(limit int) ([]*ScanRun, error)
	Close() error
}

// NopJournal records nothing.
type NopJournal struct{}

func (NopJournal) RecordScanStarted(*ScanRun) error       { return nil }
func (NopJournal) RecordScanEnded(*ScanRun) error         { return nil }
func (NopJournal) RecordDeletion(*Deletion) error         { return nil }
func (NopJournal) RecentScanRuns(int) ([]*ScanRun, error) { return nil, nil }
func (NopJournal) Close() error                           { return nil }
