package console

import (
	"fmt"
	"testing"

	"dupcheck/internal/dupes"
)

func TestLog_AddEvictsOldest(t *testing.T) {
	l := NewLog(DefaultLines)
	for i := 0; i < 15; i++ {
		l.Add(Line{Text: fmt.Sprintf("line %d", i)})
	}

	lines := l.Lines()
	if len(lines) != 12 {
		t.Fatalf("len = %d, want 12", len(lines))
	}
	if lines[0].Text != "line 3" || lines[11].Text != "line 14" {
		t.Errorf("kept %q .. %q, want line 3 .. line 14", lines[0].Text, lines[11].Text)
	}
}

func TestLog_Replace(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		want    []string
	}{
		{"empty log gains a line", nil, []string{"new"}},
		{"newest line replaced", []string{"a", "b"}, []string{"a", "new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLog(3)
			for _, s := range tt.initial {
				l.Add(Line{Text: s})
			}
			l.Replace(Line{Text: "new", Color: dupes.Yellow})

			got := l.Lines()
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Text != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i].Text, tt.want[i])
				}
			}
			if got[len(got)-1].Color != dupes.Yellow {
				t.Error("replacement should carry its color")
			}
		})
	}
}

func TestNewLog_DefaultsCapacity(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < 20; i++ {
		l.Add(Line{Text: "x"})
	}
	if l.Len() != DefaultLines {
		t.Errorf("Len = %d, want %d", l.Len(), DefaultLines)
	}
}
