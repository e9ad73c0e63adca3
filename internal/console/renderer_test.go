package console

import (
	"bytes"
	"strings"
	"testing"

	"dupcheck/internal/dupes"
)

func newTestRenderer(live bool) (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRenderer(&buf, Options{Lines: 4, Color: "never", Live: live}), &buf
}

func TestRenderer_Progress(t *testing.T) {
	t.Run("transient lines are hidden when not live", func(t *testing.T) {
		r, buf := newTestRenderer(false)
		r.Progress("hashing files (0)", true, dupes.NoColor)
		r.Progress("hashing files (1)", false, dupes.NoColor)
		r.Progress("finished", true, dupes.Green)

		if got, want := buf.String(), "hashing files (0)\nfinished\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
		lines := r.Lines()
		if len(lines) != 2 || lines[0].Text != "hashing files (1)" {
			t.Errorf("log = %+v", lines)
		}
	})

	t.Run("live redraws in place", func(t *testing.T) {
		r, buf := newTestRenderer(true)
		r.Progress("scanning /a", false, dupes.NoColor)
		r.Progress("scanning /b", false, dupes.NoColor)
		r.Progress("finished", true, dupes.Green)

		out := buf.String()
		if !strings.Contains(out, "\r\x1b[Kscanning /b") {
			t.Errorf("missing in-place redraw: %q", out)
		}
		if !strings.HasSuffix(out, "scanning /b\nfinished\n") {
			t.Errorf("persistent line should start on a fresh line: %q", out)
		}
	})

	t.Run("blank persistent line is logged but not printed", func(t *testing.T) {
		r, buf := newTestRenderer(false)
		r.Progress("", true, dupes.NoColor)
		if buf.Len() != 0 {
			t.Errorf("output = %q, want empty", buf.String())
		}
		if len(r.Lines()) != 1 {
			t.Error("blank line should be logged")
		}
	})
}

func TestRenderer_Rows(t *testing.T) {
	r, buf := newTestRenderer(false)
	r.RowAdded(dupes.Columns{"a.txt", dupes.StateKeep, "2048", "/d/a.txt", "1 June 2024, 12:00:00"}, dupes.NoColor)
	r.RowAdded(dupes.Columns{"b.txt", dupes.StateDelete, "2048", "/d/b.txt", "1 June 2024, 12:00:00"}, dupes.Red)
	r.RowAdded(dupes.Columns{}, dupes.NoColor)

	out := buf.String()
	if !strings.Contains(out, "2.0 KiB") {
		t.Errorf("size should be humanized: %q", out)
	}
	if !strings.Contains(out, "DELETE") || !strings.Contains(out, "/d/b.txt") {
		t.Errorf("missing row output: %q", out)
	}

	if got := len(r.Rows()); got != 3 {
		t.Fatalf("Rows() = %d, want 3", got)
	}
	row := r.Row("/d/b.txt")
	if row == nil || row.State() != dupes.StateDelete {
		t.Fatalf("Row(/d/b.txt) = %+v", row)
	}

	r.RowRecolored(row, dupes.Black)
	if row.Highlight != dupes.Black {
		t.Errorf("Highlight = %q, want black", row.Highlight)
	}

	r.RowsCleared()
	if len(r.Rows()) != 0 {
		t.Error("RowsCleared should drop rows")
	}
}

func TestRenderer_PrintSummary(t *testing.T) {
	r, buf := newTestRenderer(false)
	r.PrintSummary(dupes.Summary{Files: 12345, Hashed: 40, Groups: 3, Candidates: 6, ReclaimableBytes: 3 << 20})

	out := buf.String()
	for _, want := range []string{"12,345 files", "3 duplicate groups", "6 files marked", "3.0 MiB reclaimable"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %q", want, out)
		}
	}
}
