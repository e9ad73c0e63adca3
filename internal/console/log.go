// Package console renders engine notifications on a terminal.
package console

import "dupcheck/internal/dupes"

// DefaultLines is how many progress lines the console keeps.
const DefaultLines = 12

// Line is one console line.
type Line struct {
	Text  string
	Color dupes.Color
}

// Log is a bounded list of the most recent lines.
type Log struct {
	max   int
	lines []Line
}

func NewLog(max int) *Log {
	if max <= 0 {
		max = DefaultLines
	}
	return &Log{max: max}
}

// Add appends a line, dropping the oldest when full.
func (l *Log) Add(line Line) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.max {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-l.max:]...)
	}
}

// Replace overwrites the newest line, or adds one to an empty log.
func (l *Log) Replace(line Line) {
	if len(l.lines) == 0 {
		l.Add(line)
		return
	}
	l.lines[len(l.lines)-1] = line
}

// Lines returns the lines oldest first.
func (l *Log) Lines() []Line {
	return append([]Line(nil), l.lines...)
}

func (l *Log) Len() int { return len(l.lines) }
