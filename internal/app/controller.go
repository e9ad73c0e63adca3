package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"dupcheck/internal/dupes"
)

// Command is an interactive instruction typed while a scan runs.
type Command int

const (
	CmdNone Command = iota
	CmdPause
	CmdResume
	CmdCancel
)

// ParseCommand reads one input line.
func ParseCommand(line string) Command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "p", "pause":
		return CmdPause
	case "r", "resume":
		return CmdResume
	case "c", "cancel", "q", "quit":
		return CmdCancel
	}
	return CmdNone
}

// lineReader turns an io.Reader into a channel of lines. The channel is
// closed at EOF.
type lineReader struct {
	lines chan string
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan string)}
	go func() {
		defer close(lr.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lr.lines <- scanner.Text()
		}
	}()
	return lr
}

func (a *DupApp) inputLines() <-chan string {
	if a.input == nil {
		return nil
	}
	return a.input.lines
}

// Scan runs a scan of dir to completion, applying interactive commands from
// the input set with SetInput. A paused scan waits for resume or cancel; if
// input is exhausted or ctx ends, it is cancelled.
func (a *DupApp) Scan(ctx context.Context, dir string) (dupes.ScanState, error) {
	if err := a.prepare(dir); err != nil {
		return a.engine.State(), err
	}
	if err := a.engine.Start(ctx); err != nil {
		return a.engine.State(), err
	}

	lines := a.inputLines()
	for {
		select {
		case <-a.engine.Done():
			if a.engine.State() != dupes.Paused {
				return a.engine.State(), nil
			}
			if err := a.awaitResume(ctx, lines); err != nil {
				return a.engine.State(), err
			}
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			switch ParseCommand(line) {
			case CmdPause:
				_ = a.engine.Pause()
			case CmdCancel:
				_ = a.engine.Cancel()
			}
		}
	}
}

// awaitResume blocks while the scan is paused.
func (a *DupApp) awaitResume(ctx context.Context, lines <-chan string) error {
	if lines == nil {
		return a.engine.Cancel()
	}
	for {
		select {
		case <-ctx.Done():
			return a.engine.Cancel()
		case line, ok := <-lines:
			if !ok {
				return a.engine.Cancel()
			}
			switch ParseCommand(line) {
			case CmdResume:
				return a.engine.Start(ctx)
			case CmdCancel:
				return a.engine.Cancel()
			}
		}
	}
}

// Confirm asks a yes/no question on out and reads the answer from input.
// Without input the answer is no.
func (a *DupApp) Confirm(out io.Writer, prompt string) bool {
	lines := a.inputLines()
	if lines == nil {
		return false
	}
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, ok := <-lines
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}
