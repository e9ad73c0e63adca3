package dupes

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// FileRecord is one regular file found by the walk.
type FileRecord struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time

	// Skip marks a file that could not be read. Skipped files never join a group.
	Skip bool
	// Duplicated is set once the file belongs to a DuplicateGroup.
	Duplicated bool
	// SizeGroupStart is the index of the first record with the same size,
	// valid once the list is sorted by size.
	SizeGroupStart int
	// Hash is the hex digest of the content, empty until computed.
	Hash string
}

func newFileRecord(path string, info fs.FileInfo, readable bool) FileRecord {
	return FileRecord{
		Name:    filepath.Base(path),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Skip:    !readable,
	}
}

// matches reports whether two records are candidates for the same group.
func (f *FileRecord) matches(other *FileRecord) bool {
	return f.Size == other.Size && f.Hash == other.Hash
}

// DuplicateGroup holds indices into the engine's file list. The first entry
// is the file that is kept by default.
type DuplicateGroup []int

// ScanState is the lifecycle state of an Engine.
type ScanState int

const (
	Prepared ScanState = iota
	Scanning
	Paused
	Canceled
	Finished
)

func (s ScanState) String() string {
	switch s {
	case Prepared:
		return "prepared"
	case Scanning:
		return "scanning"
	case Paused:
		return "paused"
	case Canceled:
		return "canceled"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("ScanState(%d)", int(s))
}

// Phase is a stage of the scan pipeline.
type Phase int

const (
	PhaseWalk Phase = iota
	PhaseSizeSort
	PhaseHash
	PhaseHashSort
	PhaseGroup
	PhaseNameSort
	PhaseReport
	PhaseEnd
)

var phaseNames = [...]string{"walk", "size-sort", "hash", "hash-sort", "group", "name-sort", "report", "end"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) next() Phase {
	if p >= PhaseEnd {
		return PhaseEnd
	}
	return p + 1
}

// Cursor is a resume point: the phase and up to two loop indices inside it.
type Cursor struct {
	Phase Phase
	I, J  int
}

func (c Cursor) String() string {
	return fmt.Sprintf("%s(%d, %d)", c.Phase, c.I, c.J)
}

// Summary describes the outcome of a finished scan.
type Summary struct {
	Files            int
	Hashed           int
	Skipped          int
	Groups           int
	Candidates       int
	ReclaimableBytes int64
}

func summarize(files []FileRecord, groups []DuplicateGroup) Summary {
	var s Summary
	s.Files = len(files)
	for i := range files {
		if files[i].Hash != "" {
			s.Hashed++
		}
		if files[i].Skip {
			s.Skipped++
		}
	}
	s.Groups = len(groups)
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		s.Candidates += len(g) - 1
		s.ReclaimableBytes += int64(len(g)-1) * files[g[0]].Size
	}
	return s
}
