package testutil

import (
	"sync"

	"dupcheck/internal/dupes"
)

// Event kinds recorded by RecordingNotifier.
const (
	EventStarted   = "started"
	EventPaused    = "paused"
	EventCanceled  = "canceled"
	EventFinished  = "finished"
	EventProgress  = "progress"
	EventRow       = "row"
	EventRecolor   = "recolor"
	EventCleared   = "cleared"
	EventRefreshed = "refreshed"
)

// Event is one recorded notification.
type Event struct {
	Kind      string
	Text      string
	Persist   bool
	Color     dupes.Color
	Columns   dupes.Columns
	Highlight dupes.Color
}

// RecordingNotifier keeps every notification and the current rows, like a
// table view would.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Event
	rows   []*dupes.TableRow

	// OnProgress runs after a progress event is recorded, outside the lock.
	OnProgress func(text string)
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) record(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *RecordingNotifier) Started()  { n.record(Event{Kind: EventStarted}) }
func (n *RecordingNotifier) Paused()   { n.record(Event{Kind: EventPaused}) }
func (n *RecordingNotifier) Canceled() { n.record(Event{Kind: EventCanceled}) }
func (n *RecordingNotifier) Finished() { n.record(Event{Kind: EventFinished}) }

func (n *RecordingNotifier) Progress(text string, persist bool, color dupes.Color) {
	n.record(Event{Kind: EventProgress, Text: text, Persist: persist, Color: color})
	if n.OnProgress != nil {
		n.OnProgress(text)
	}
}

func (n *RecordingNotifier) RowAdded(cols dupes.Columns, highlight dupes.Color) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{Kind: EventRow, Columns: cols, Highlight: highlight})
	n.rows = append(n.rows, dupes.NewTableRow(cols, highlight))
}

func (n *RecordingNotifier) RowRecolored(row dupes.Row, highlight dupes.Color) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{Kind: EventRecolor, Text: row.Path(), Highlight: highlight})
	if tr, ok := row.(*dupes.TableRow); ok {
		tr.Highlight = highlight
	}
}

func (n *RecordingNotifier) RowsCleared() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{Kind: EventCleared})
	n.rows = nil
}

func (n *RecordingNotifier) ViewRefreshRequested() { n.record(Event{Kind: EventRefreshed}) }

// Events returns a copy of everything recorded so far.
func (n *RecordingNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

// Count returns the number of events of kind.
func (n *RecordingNotifier) Count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Kind == kind {
			c++
		}
	}
	return c
}

// Progress texts in order.
func (n *RecordingNotifier) ProgressTexts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var texts []string
	for _, e := range n.events {
		if e.Kind == EventProgress {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

// Rows returns the rows currently shown, separators included.
func (n *RecordingNotifier) Rows() []*dupes.TableRow {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*dupes.TableRow(nil), n.rows...)
}

// RowsAsRows adapts Rows for dupes.Engine.DeleteMarked.
func (n *RecordingNotifier) RowsAsRows() []dupes.Row {
	rows := n.Rows()
	out := make([]dupes.Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// Row finds the shown row for path, or nil.
func (n *RecordingNotifier) Row(path string) *dupes.TableRow {
	for _, r := range n.Rows() {
		if r.Path() == path {
			return r
		}
	}
	return nil
}

// Reset forgets recorded events and rows.
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
	n.rows = nil
}

var _ dupes.Notifier = (*RecordingNotifier)(nil)
