package dupes

import "errors"

var (
	// ErrScanInProgress is returned by operations that must not run while the
	// worker is active.
	ErrScanInProgress = errors.New("scan in progress")
	// ErrNotScanning is returned by Pause and Cancel when there is nothing to stop.
	ErrNotScanning = errors.New("no scan is running")
	// ErrNotFinished is returned by row operations before a scan has finished.
	ErrNotFinished = errors.New("scan has not finished")
	// ErrNothingToDelete is returned by DeleteMarked when no row is marked.
	ErrNothingToDelete = errors.New("no files marked for deletion")
	ErrNotDirectory    = errors.New("not a directory")
	ErrUnreadable      = errors.New("directory is not readable")
)
