package dupes

import (
	"time"

	"github.com/google/uuid"
)

// Clock stamps scan runs and deletions.
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall clock time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator names scan runs in the journal.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
