package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"dupcheck/internal/dupes"
)

// Options configure a Renderer.
type Options struct {
	// Lines bounds the progress log.
	Lines int
	// Color is "auto", "always" or "never".
	Color string
	// Live redraws transient progress in place. Without it only persistent
	// lines are printed.
	Live bool
}

var palette = map[dupes.Color]lipgloss.Color{
	dupes.Red:    lipgloss.Color("#ff0000"),
	dupes.Green:  lipgloss.Color("#00af00"),
	dupes.Yellow: lipgloss.Color("#d7af00"),
	dupes.Orange: lipgloss.Color("#ff8700"),
	dupes.Purple: lipgloss.Color("#af5fd7"),
	dupes.Blue:   lipgloss.Color("#5f87ff"),
}

// Renderer implements dupes.Notifier by writing to a terminal. It keeps the
// rows it has shown so they can be toggled and deleted after the scan.
type Renderer struct {
	mu      sync.Mutex
	w       io.Writer
	log     *Log
	live    bool
	pending bool // a transient line is on screen without a newline
	styles  map[dupes.Color]lipgloss.Style
	plain   lipgloss.Style
	rows    []*dupes.TableRow
}

func NewRenderer(w io.Writer, opts Options) *Renderer {
	lr := lipgloss.NewRenderer(w)
	switch opts.Color {
	case "always":
		lr.SetColorProfile(termenv.ANSI256)
	case "never":
		lr.SetColorProfile(termenv.Ascii)
	}
	styles := make(map[dupes.Color]lipgloss.Style, len(palette))
	for c, v := range palette {
		styles[c] = lr.NewStyle().Foreground(v)
	}
	return &Renderer{
		w:      w,
		log:    NewLog(opts.Lines),
		live:   opts.Live,
		styles: styles,
		plain:  lr.NewStyle(),
	}
}

func (r *Renderer) style(c dupes.Color) lipgloss.Style {
	if s, ok := r.styles[c]; ok {
		return s
	}
	return r.plain
}

// endLine terminates a transient line so the next output starts clean.
// Caller holds mu.
func (r *Renderer) endLine() {
	if r.pending {
		fmt.Fprintln(r.w)
		r.pending = false
	}
}

func (r *Renderer) Started()  {}
func (r *Renderer) Paused()   { r.flush() }
func (r *Renderer) Canceled() { r.flush() }
func (r *Renderer) Finished() { r.flush() }

func (r *Renderer) flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endLine()
}

func (r *Renderer) Progress(text string, persist bool, color dupes.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := Line{Text: text, Color: color}
	if persist {
		r.log.Add(line)
	} else {
		r.log.Replace(line)
	}

	switch {
	case persist:
		r.endLine()
		if text != "" {
			fmt.Fprintln(r.w, r.style(color).Render(text))
		}
	case r.live:
		fmt.Fprintf(r.w, "\r\x1b[K%s", r.style(color).Render(text))
		r.pending = true
	}
}

func (r *Renderer) RowAdded(cols dupes.Columns, highlight dupes.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := dupes.NewTableRow(cols, highlight)
	r.rows = append(r.rows, row)
	r.endLine()
	fmt.Fprintln(r.w, r.formatRow(row))
}

func (r *Renderer) RowRecolored(row dupes.Row, highlight dupes.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := row.(*dupes.TableRow); ok {
		tr.Highlight = highlight
	}
	r.endLine()
	fmt.Fprintln(r.w, r.style(highlight).Render(fmt.Sprintf("%-6s %s", row.State(), row.Path())))
}

func (r *Renderer) RowsCleared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = nil
}

func (r *Renderer) ViewRefreshRequested() { r.flush() }

func (r *Renderer) formatRow(row *dupes.TableRow) string {
	c := row.Columns
	if c.IsSeparator() {
		return ""
	}
	name := c[dupes.ColPath]
	if name == "" {
		name = c[dupes.ColName]
	}
	size := c[dupes.ColSize]
	if n, err := strconv.ParseUint(size, 10, 64); err == nil {
		size = humanize.IBytes(n)
	}
	text := fmt.Sprintf("%-9s %10s  %s", c[dupes.ColState], size, name)
	if c[dupes.ColModified] != "" {
		text += "  (" + c[dupes.ColModified] + ")"
	}
	return r.style(row.Highlight).Render(strings.TrimRight(text, " "))
}

// Lines returns the progress log.
func (r *Renderer) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Lines()
}

// Rows returns the rows shown since the last clear, separators included.
func (r *Renderer) Rows() []*dupes.TableRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*dupes.TableRow(nil), r.rows...)
}

// Row finds the shown row for an absolute path.
func (r *Renderer) Row(path string) *dupes.TableRow {
	for _, row := range r.Rows() {
		if row.Path() == path {
			return row
		}
	}
	return nil
}

// PrintSummary writes the totals of a finished scan.
func (r *Renderer) PrintSummary(s dupes.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endLine()
	fmt.Fprintf(r.w, "%s files scanned, %s hashed, %s unreadable\n",
		humanize.Comma(int64(s.Files)), humanize.Comma(int64(s.Hashed)), humanize.Comma(int64(s.Skipped)))
	fmt.Fprintf(r.w, "%s duplicate groups, %s files marked for deletion, %s reclaimable\n",
		humanize.Comma(int64(s.Groups)), humanize.Comma(int64(s.Candidates)), humanize.IBytes(uint64(s.ReclaimableBytes)))
}

var _ dupes.Notifier = (*Renderer)(nil)
