package dupes_test

import (
	"errors"
	"slices"
	"testing"

	"dupcheck/internal/dupes"
	"dupcheck/internal/testutil"
)

func TestEngine_ToggleRow(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(sampleTree(), n, dupes.Options{})
	runToEnd(t, e)

	steps := []struct {
		path          string
		wantState     string
		wantHighlight dupes.Color
		wantTotal     int
	}{
		{"/data/b.txt", dupes.StateKeep, dupes.Black, 4},
		{"/data/b.txt", dupes.StateDelete, dupes.Red, 5},
		{"/data/a.txt", dupes.StateDelete, dupes.Red, 6},
		{"/data/a.txt", dupes.StateKeep, dupes.Black, 5},
	}
	for _, s := range steps {
		row := n.Row(s.path)
		if err := e.ToggleRow(row); err != nil {
			t.Fatalf("ToggleRow(%s): %v", s.path, err)
		}
		if row.State() != s.wantState || row.Highlight != s.wantHighlight {
			t.Errorf("%s: state %q highlight %q, want %q %q", s.path, row.State(), row.Highlight, s.wantState, s.wantHighlight)
		}
		if got := e.DeletionTotal(); got != s.wantTotal {
			t.Errorf("%s: DeletionTotal = %d, want %d", s.path, got, s.wantTotal)
		}
	}

	separator := n.Rows()[2]
	if !separator.Columns.IsSeparator() {
		t.Fatalf("row 2 = %v, want separator", separator.Columns)
	}
	recolors := n.Count(testutil.EventRecolor)
	if err := e.ToggleRow(separator); err != nil {
		t.Errorf("ToggleRow(separator) = %v", err)
	}
	if e.DeletionTotal() != 5 || n.Count(testutil.EventRecolor) != recolors {
		t.Error("toggling a separator must change nothing")
	}
}

func TestEngine_DeleteMarked(t *testing.T) {
	fsmgr := sampleTree()
	j := testutil.NewTestJournal(t)
	n := testutil.NewRecordingNotifier()
	e := dupes.NewEngine(fsmgr, n, j, nil, testutil.FixedClock(), testutil.NewStubIDGenerator(), dupes.Options{Dir: "/data"})
	runToEnd(t, e)

	marked := paths(n, dupes.StateDelete)
	wantMarked := []string{"/data/x/k.txt", "/data/b.txt", "/data/sub/d.txt", "/data/sub/e.txt", "/data/sub/deep/g.txt"}
	if !slices.Equal(marked, wantMarked) {
		t.Fatalf("marked = %v, want %v", marked, wantMarked)
	}

	fsmgr.DenyRemove("/data/sub/d.txt")
	if err := fsmgr.Remove("/data/sub/e.txt"); err != nil {
		t.Fatal(err)
	}

	deleted, err := e.DeleteMarked(n.RowsAsRows())
	if err != nil {
		t.Fatalf("DeleteMarked: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if got := e.DeletionTotal(); got != 2 {
		t.Errorf("DeletionTotal = %d, want 2", got)
	}
	for _, p := range []string{"/data/x/k.txt", "/data/b.txt", "/data/sub/deep/g.txt"} {
		if fsmgr.Exists(p) {
			t.Errorf("%s should be removed", p)
		}
	}
	for _, p := range []string{"/data/x/j.txt", "/data/a.txt", "/data/c.txt", "/data/sub/d.txt", "/data/sub/deep/f.txt"} {
		if !fsmgr.Exists(p) {
			t.Errorf("%s should remain", p)
		}
	}

	var warnings []string
	for _, ev := range n.Events() {
		if ev.Kind == testutil.EventProgress && ev.Color == dupes.Orange {
			warnings = append(warnings, ev.Text)
		}
	}
	wantWarnings := []string{"cannot delete /data/sub/d.txt", "cannot delete /data/sub/e.txt"}
	if !slices.Equal(warnings, wantWarnings) {
		t.Errorf("warnings = %v, want %v", warnings, wantWarnings)
	}
	texts := n.ProgressTexts()
	if last := texts[len(texts)-1]; last != "deleted 3 of 5 files" {
		t.Errorf("last progress = %q", last)
	}

	deletions, err := j.DeletionsForRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(deletions) != 5 {
		t.Fatalf("journal deletions = %d, want 5", len(deletions))
	}
	failed := 0
	for _, d := range deletions {
		if d.Err != "" {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("failed deletions in journal = %d, want 2", failed)
	}
}

func TestEngine_DeleteMarkedNothingMarked(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/a", []byte("same"))
	fsmgr.AddFile("/data/b", []byte("same"))
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(fsmgr, n, dupes.Options{})
	runToEnd(t, e)

	if err := e.ToggleRow(n.Row("/data/b")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.DeleteMarked(n.RowsAsRows()); !errors.Is(err, dupes.ErrNothingToDelete) {
		t.Errorf("DeleteMarked = %v, want ErrNothingToDelete", err)
	}
	if !fsmgr.Exists("/data/a") || !fsmgr.Exists("/data/b") {
		t.Error("no file should be removed")
	}
}

func TestEngine_DeleteMarkedNoDuplicates(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/a", []byte("one"))
	fsmgr.AddFile("/data/b", []byte("two"))
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(fsmgr, n, dupes.Options{})
	runToEnd(t, e)

	if len(n.Rows()) != 0 {
		t.Errorf("rows = %d, want none", len(n.Rows()))
	}
	if _, err := e.DeleteMarked(nil); !errors.Is(err, dupes.ErrNothingToDelete) {
		t.Errorf("DeleteMarked = %v, want ErrNothingToDelete", err)
	}
}

func TestEngine_DeleteMarkedKeptRowToggledOn(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/a", []byte("same"))
	fsmgr.AddFile("/data/b", []byte("same"))
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(fsmgr, n, dupes.Options{})
	runToEnd(t, e)

	if err := e.ToggleRow(n.Row("/data/a")); err != nil {
		t.Fatal(err)
	}
	deleted, err := e.DeleteMarked(n.RowsAsRows())
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 || fsmgr.Exists("/data/a") || fsmgr.Exists("/data/b") {
		t.Errorf("deleted = %d, both files should be gone", deleted)
	}
}
