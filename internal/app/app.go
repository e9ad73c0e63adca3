package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"dupcheck/internal/config"
	"dupcheck/internal/console"
	"dupcheck/internal/digest"
	"dupcheck/internal/dupes"
	"dupcheck/internal/fs"
	"dupcheck/internal/journal"
)

// DupApp is the application layer between the CLI and the engine. It
// builds every dependency from config and owns the journal and log file.
type DupApp struct {
	cfg     *config.Config
	fsmgr   *fs.FilesystemManager
	journal dupes.Journal
	console *console.Renderer
	engine  *dupes.Engine
	input   *lineReader
	logFile *os.File
}

// NewDupApp wires an app over the real filesystem. Output goes to out;
// live enables in-place progress redraws for terminals.
func NewDupApp(cfg *config.Config, out io.Writer, live bool) (*DupApp, error) {
	return newDupApp(cfg, fs.NewOSFilesystemManager(), out, live)
}

func newDupApp(cfg *config.Config, fsmgr *fs.FilesystemManager, out io.Writer, live bool) (*DupApp, error) {
	alg, err := digest.Lookup(cfg.Scan.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	j, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID, cfg.LogLevel)
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	renderer := console.NewRenderer(out, console.Options{
		Lines: cfg.Console.Lines,
		Color: cfg.Console.Color,
		Live:  live,
	})

	engine := dupes.NewEngine(fsmgr, renderer, j, &slogAdapter{l: logger}, dupes.RealClock{}, dupes.UUIDGenerator{}, dupes.Options{
		Verify:        cfg.Scan.Verify,
		Algorithm:     alg,
		BlockSize:     cfg.Scan.BlockSize,
		IncludeHidden: cfg.Scan.IncludeHidden,
	})

	return &DupApp{
		cfg:     cfg,
		fsmgr:   fsmgr,
		journal: j,
		console: renderer,
		engine:  engine,
		logFile: logFile,
	}, nil
}

// Engine exposes the scanner for callers that drive it directly.
func (a *DupApp) Engine() *dupes.Engine {
	return a.engine
}

// SetInput sets where interactive commands and confirmations are read from.
func (a *DupApp) SetInput(r io.Reader) {
	a.input = newLineReader(r)
}

// prepare points the engine at dir and loads its ignore patterns.
func (a *DupApp) prepare(dir string) error {
	if err := a.engine.SetDirectory(dir); err != nil {
		return err
	}
	root := a.engine.Directory()

	patterns := append([]string{fs.IgnoreFileName}, a.cfg.Scan.Ignore...)
	extra, err := a.fsmgr.ReadIgnoreFile(root)
	if err != nil {
		return err
	}
	patterns = append(patterns, extra...)
	return a.engine.SetIgnore(fs.NewIgnoreMatcher(patterns))
}

// List shows the entries of dir.
func (a *DupApp) List(dir string) error {
	return a.engine.ListDirectory(dir)
}

// Summary returns the totals of the last finished scan.
func (a *DupApp) Summary() (dupes.Summary, bool) {
	return a.engine.Summary()
}

// PrintSummary writes the last scan's totals to the console.
func (a *DupApp) PrintSummary() {
	if s, ok := a.engine.Summary(); ok {
		a.console.PrintSummary(s)
	}
}

// Keep unmarks the result rows for the given paths so they survive deletion.
func (a *DupApp) Keep(paths []string) error {
	for _, p := range paths {
		abs, err := absPath(p)
		if err != nil {
			return err
		}
		row := a.console.Row(abs)
		if row == nil {
			return fmt.Errorf("%s is not in the scan results", abs)
		}
		if row.State() != dupes.StateDelete {
			continue
		}
		if err := a.engine.ToggleRow(row); err != nil {
			return err
		}
	}
	return nil
}

// MarkedCount is how many files would be deleted.
func (a *DupApp) MarkedCount() int {
	return a.engine.DeletionTotal()
}

// DeleteMarked deletes every marked file and returns how many were removed.
func (a *DupApp) DeleteMarked() (int, error) {
	shown := a.console.Rows()
	rows := make([]dupes.Row, len(shown))
	for i, r := range shown {
		rows[i] = r
	}
	n, err := a.engine.DeleteMarked(rows)
	if errors.Is(err, dupes.ErrNothingToDelete) {
		return 0, nil
	}
	return n, err
}

// History returns the most recent scan runs.
func (a *DupApp) History(limit int) ([]*dupes.ScanRun, error) {
	return a.journal.RecentScanRuns(limit)
}

// Close cancels any scan in progress and releases the journal and log file.
func (a *DupApp) Close() error {
	if a.engine.Cancel() == nil {
		a.engine.Wait()
	}

	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
