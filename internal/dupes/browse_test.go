package dupes_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dupcheck/internal/dupes"
	dfs "dupcheck/internal/fs"
	"dupcheck/internal/testutil"
)

func listingTree() *testutil.MockFilesystemManager {
	m := testutil.NewMockFilesystemManager()
	m.AddFile("/data/b.txt", []byte("bbb"))
	m.AddFile("/data/a.txt", []byte("a"))
	m.AddFile("/data/.hidden", []byte("h"))
	m.AddFile("/data/zeta/z.txt", []byte("z"))
	m.AddDirectory("/data/alpha")
	m.AddDirectory("/data/locked")
	return m
}

func names(n *testutil.RecordingNotifier) []string {
	var out []string
	for _, r := range n.Rows() {
		out = append(out, r.Columns[dupes.ColName])
	}
	return out
}

func TestEngine_ListDirectory(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(listingTree(), n, dupes.Options{})

	if err := e.ListDirectory("/data"); err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}

	want := []string{"..", "alpha", "locked", "zeta", "a.txt", "b.txt"}
	if got := names(n); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}

	dir := n.Row("/data/alpha")
	if dir == nil || dir.Columns[dupes.ColState] != dupes.KindDirectory || dir.Columns[dupes.ColSize] != "" {
		t.Errorf("directory row = %+v", dir)
	}
	file := n.Row("/data/b.txt")
	if file == nil || file.Columns[dupes.ColState] != dupes.KindFile || file.Columns[dupes.ColSize] != "3" {
		t.Errorf("file row = %+v", file)
	}
	if file != nil && file.Columns[dupes.ColModified] != "1 June 2024, 12:00:00" {
		t.Errorf("modified = %q", file.Columns[dupes.ColModified])
	}

	if n.Count(testutil.EventCleared) != 1 || n.Count(testutil.EventRefreshed) != 1 {
		t.Error("listing should clear rows once and request one refresh")
	}
	texts := n.ProgressTexts()
	if texts[len(texts)-1] != "opened /data" {
		t.Errorf("last progress = %q", texts[len(texts)-1])
	}
	if e.Directory() != "/data" {
		t.Errorf("Directory = %q", e.Directory())
	}
}

func TestEngine_ListDirectoryIsIdempotent(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(listingTree(), n, dupes.Options{})

	if err := e.ListDirectory("/data"); err != nil {
		t.Fatal(err)
	}
	first := resultRows(n)
	if err := e.ListDirectory("/data"); err != nil {
		t.Fatal(err)
	}
	if got := resultRows(n); !reflect.DeepEqual(got, first) {
		t.Errorf("second listing =\n%v\nwant\n%v", got, first)
	}
}

func TestEngine_ListDirectoryHiddenEntries(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(listingTree(), n, dupes.Options{IncludeHidden: true})

	if err := e.ListDirectory("/data"); err != nil {
		t.Fatal(err)
	}
	if n.Row("/data/.hidden") == nil {
		t.Error("hidden file should be listed when hidden entries are included")
	}
}

func TestEngine_ListRoot(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(listingTree(), n, dupes.Options{})

	if err := e.ListDirectory("/"); err != nil {
		t.Fatal(err)
	}
	if got := names(n); !reflect.DeepEqual(got, []string{"data"}) {
		t.Errorf("root rows = %v, want [data]", got)
	}
}

func TestEngine_ListDirectoryRelative(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	e := newTestEngine(listingTree(), n, dupes.Options{})

	steps := []struct {
		path string
		want string
	}{
		{"/data", "/data"},
		{"zeta", "/data/zeta"},
		{"..", "/data"},
		{"", "/data"},
	}
	for _, s := range steps {
		if err := e.ListDirectory(s.path); err != nil {
			t.Fatalf("ListDirectory(%q): %v", s.path, err)
		}
		if got := e.Directory(); got != s.want {
			t.Errorf("after %q Directory = %q, want %q", s.path, got, s.want)
		}
	}
}

func TestEngine_ListDirectoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"regular file", "/data/a.txt", dupes.ErrNotDirectory},
		{"missing path", "/data/missing", dupes.ErrNotDirectory},
		{"unreadable directory", "/data/locked", dupes.ErrUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsmgr := listingTree()
			fsmgr.DenyRead("/data/locked")
			n := testutil.NewRecordingNotifier()
			e := newTestEngine(fsmgr, n, dupes.Options{})
			if err := e.ListDirectory("/data"); err != nil {
				t.Fatal(err)
			}
			before := resultRows(n)

			err := e.ListDirectory(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if e.Directory() != "/data" {
				t.Errorf("Directory changed to %q", e.Directory())
			}
			if !reflect.DeepEqual(resultRows(n), before) {
				t.Error("rows must not change on error")
			}
			events := n.Events()
			last := events[len(events)-1]
			if last.Kind != testutil.EventProgress || last.Color != dupes.Blue || last.Text != err.Error() {
				t.Errorf("last event = %+v", last)
			}
		})
	}
}

func TestEngine_ListWhilePaused(t *testing.T) {
	n := testutil.NewRecordingNotifier()
	var e *dupes.Engine
	n.OnProgress = func(text string) {
		if text == "hashing files (2)" {
			e.Pause()
		}
	}
	e = newTestEngine(sampleTree(), n, dupes.Options{})
	if err := e.Start(t.Context()); err != nil {
		t.Fatal(err)
	}
	e.Wait()
	if !e.IsPaused() {
		t.Fatalf("state = %v, want paused", e.State())
	}

	n.OnProgress = nil
	if err := e.ListDirectory("/data/sub"); err != nil {
		t.Fatalf("ListDirectory while paused: %v", err)
	}
	runToEnd(t, e)

	s, _ := e.Summary()
	if s.Files != 11 || s.Groups != 4 {
		t.Errorf("resumed scan should keep its root, got %+v", s)
	}

	runToEnd(t, e)
	s, _ = e.Summary()
	if s.Files != 5 || s.Groups != 1 {
		t.Errorf("next scan should use the listed directory, got %+v", s)
	}
}

func TestEngine_SetDirectory(t *testing.T) {
	e := newTestEngine(listingTree(), nil, dupes.Options{})

	if err := e.SetDirectory("/data/zeta"); err != nil {
		t.Fatal(err)
	}
	if e.Directory() != "/data/zeta" {
		t.Errorf("Directory = %q", e.Directory())
	}
	if err := e.SetDirectory("/data/b.txt"); !errors.Is(err, dupes.ErrNotDirectory) {
		t.Errorf("SetDirectory(file) = %v, want ErrNotDirectory", err)
	}
}

func TestEngine_Symlinks(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("real/a.txt", "same")
	write("real/b.txt", "same")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "real", "a.txt"), filepath.Join(root, "c.txt")); err != nil {
		t.Fatal(err)
	}

	n := testutil.NewRecordingNotifier()
	e := dupes.NewEngine(dfs.NewOSFilesystemManager(), n, nil, nil, testutil.FixedClock(), testutil.NewStubIDGenerator(), dupes.Options{Dir: root})

	t.Run("scan does not follow links", func(t *testing.T) {
		runToEnd(t, e)
		s, _ := e.Summary()
		if s.Files != 2 || s.Groups != 1 || s.Candidates != 1 {
			t.Errorf("summary = %+v", s)
		}
	})

	t.Run("listing shows link targets", func(t *testing.T) {
		if err := e.ListDirectory(root); err != nil {
			t.Fatal(err)
		}
		link := n.Row(filepath.Join(root, "link"))
		if link == nil || link.Columns[dupes.ColState] != dupes.KindDirectory {
			t.Errorf("link row = %+v", link)
		}
		file := n.Row(filepath.Join(root, "c.txt"))
		if file == nil || file.Columns[dupes.ColState] != dupes.KindFile || file.Columns[dupes.ColSize] != "4" {
			t.Errorf("file link row = %+v", file)
		}
	})
}
