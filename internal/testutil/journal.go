package testutil

import (
	"testing"

	"dupcheck/internal/journal"
)

// NewTestJournal returns a migrated in-memory journal closed at test end.
func NewTestJournal(t *testing.T) *journal.SQLiteJournal {
	t.Helper()
	j, err := journal.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("creating test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}
