package dupes

// Color is a highlight hint for rows and progress lines.
type Color string

const (
	NoColor Color = ""
	Red     Color = "red"
	Black   Color = "black"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Orange  Color = "orange"
	Purple  Color = "purple"
	Blue    Color = "blue"
)

// Row states and directory listing kinds shown in the second column.
const (
	StateKeep     = "OK"
	StateDelete   = "DELETE"
	KindDirectory = "directory"
	KindFile      = "file"
)

// Column positions inside Columns.
const (
	ColName = iota
	ColState
	ColSize
	ColPath
	ColModified
)

// Columns are the cells of a row: name, state or kind, size in bytes,
// absolute path and modification time. All empty means a group separator.
type Columns [5]string

func (c Columns) IsSeparator() bool { return c == Columns{} }

// Row is a result row held by a consumer. Toggling and deletion work on rows
// rather than on engine indices because the engine forgets its file list
// once a scan finishes.
type Row interface {
	State() string
	SetState(state string)
	Path() string
}

// TableRow is the Row most consumers need.
type TableRow struct {
	Columns   Columns
	Highlight Color
}

func NewTableRow(cols Columns, highlight Color) *TableRow {
	return &TableRow{Columns: cols, Highlight: highlight}
}

func (r *TableRow) State() string         { return r.Columns[ColState] }
func (r *TableRow) SetState(state string) { r.Columns[ColState] = state }
func (r *TableRow) Path() string          { return r.Columns[ColPath] }

// Notifier receives engine events. During a scan every call happens on the
// worker goroutine; listing and row operations call it on the caller's
// goroutine. The engine never holds its lock while notifying, so handlers
// may call back into Pause, Cancel or the state accessors.
type Notifier interface {
	Started()
	Paused()
	Canceled()
	Finished()
	// Progress reports a console line. A persistent line is appended; a
	// non-persistent one replaces the latest line.
	Progress(text string, persist bool, color Color)
	RowAdded(cols Columns, highlight Color)
	RowRecolored(row Row, highlight Color)
	RowsCleared()
	ViewRefreshRequested()
}

// NopNotifier ignores every event.
type NopNotifier struct{}

func (NopNotifier) Started()                     {}
func (NopNotifier) Paused()                      {}
func (NopNotifier) Canceled()                    {}
func (NopNotifier) Finished()                    {}
func (NopNotifier) Progress(string, bool, Color) {}
func (NopNotifier) RowAdded(Columns, Color)      {}
func (NopNotifier) RowRecolored(Row, Color)      {}
func (NopNotifier) RowsCleared()                 {}
func (NopNotifier) ViewRefreshRequested()        {}

