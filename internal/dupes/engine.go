package dupes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"dupcheck/internal/digest"
)

// DefaultBlockSize is the read size used when verifying candidate pairs.
const DefaultBlockSize = 1 << 20

// Options configure an Engine.
type Options struct {
	// Verify enables byte-by-byte comparison of files whose digests match.
	Verify bool
	// Algorithm defaults to md5. A non-cryptographic algorithm forces Verify
	// for the duration of each run.
	Algorithm *digest.Algorithm
	BlockSize int
	// IncludeHidden keeps dot-files and dot-directories in scans and listings.
	IncludeHidden bool
	Ignore        Matcher
	// Dir is the initial current directory.
	Dir string
}

// Engine is the duplicate scanner. Control operations are safe to call from
// any goroutine; the scan itself runs on a single worker goroutine started
// by Start.
type Engine struct {
	fsmgr    FilesystemManager
	notifier Notifier
	journal  Journal
	logger   Logger
	clock    Clock
	idgen    IDGenerator

	algorithm     *digest.Algorithm
	blockSize     int
	includeHidden bool

	mu      sync.Mutex
	state   ScanState
	verify  bool
	ignore  Matcher
	dir     string
	ledger  int
	summary Summary
	done    chan struct{}
	lastRun *ScanRun

	// aborting is set while a canceled run is torn down.
	aborting bool

	pauseRequested  atomic.Bool
	cancelRequested atomic.Bool

	// Owned by the worker while Scanning, by the controller otherwise.
	ctx       context.Context
	root      string
	verifying bool
	matcher   Matcher
	cursor    Cursor
	files     []FileRecord
	dirs      []string
	groups    []DuplicateGroup
	run       *ScanRun
	blockA    []byte
	blockB    []byte
}

// NewEngine creates an Engine in the Prepared state. Nil notifier, journal,
// logger, clock or idgen fall back to no-op or real implementations.
func NewEngine(fsmgr FilesystemManager, notifier Notifier, journal Journal, logger Logger, clock Clock, idgen IDGenerator, opts Options) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if journal == nil {
		journal = NopJournal{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if idgen == nil {
		idgen = UUIDGenerator{}
	}
	if opts.Algorithm == nil {
		opts.Algorithm = digest.Default()
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	done := make(chan struct{})
	close(done)
	return &Engine{
		fsmgr:         fsmgr,
		notifier:      notifier,
		journal:       journal,
		logger:        logger,
		clock:         clock,
		idgen:         idgen,
		algorithm:     opts.Algorithm,
		blockSize:     opts.BlockSize,
		includeHidden: opts.IncludeHidden,
		verify:        opts.Verify,
		ignore:        opts.Ignore,
		dir:           opts.Dir,
		done:          done,
	}
}

// Start begins a fresh scan of the current directory, or resumes a paused
// one from its cursor. It returns immediately; use Done or Wait to observe
// the end of the run. Cancelling ctx cancels the scan at its next checkpoint.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.aborting {
		return ErrScanInProgress
	}

	resume := false
	switch e.state {
	case Scanning:
		return ErrScanInProgress
	case Paused:
		resume = true
	default:
		if e.dir == "" {
			return errors.New("no directory selected")
		}
		e.reset()
	}

	e.pauseRequested.Store(false)
	e.cancelRequested.Store(false)
	e.ctx = ctx
	e.verifying = e.verify || !e.algorithm.Cryptographic
	e.state = Scanning
	e.done = make(chan struct{})

	go e.work(resume, e.done)
	return nil
}

// reset prepares worker state for a fresh run. Caller holds mu.
func (e *Engine) reset() {
	e.root = e.dir
	e.matcher = e.ignore
	e.cursor = Cursor{}
	e.files = nil
	e.dirs = nil
	e.groups = nil
	e.ledger = 0
	e.summary = Summary{}
	e.run = &ScanRun{
		ID:        e.idgen.New(),
		Root:      e.root,
		Algorithm: e.algorithm.Name,
		Status:    RunRunning,
	}
}

// Pause asks the worker to stop at its next checkpoint.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Scanning {
		return ErrNotScanning
	}
	e.pauseRequested.Store(true)
	return nil
}

// Cancel stops a running scan at its next checkpoint. A paused scan is
// cancelled immediately on the caller's goroutine; Start is refused until
// that teardown completes.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	switch e.state {
	case Scanning:
		e.cancelRequested.Store(true)
		e.mu.Unlock()
		return nil
	case Paused:
		e.state = Canceled
		e.aborting = true
		e.mu.Unlock()
		e.abort()
		return nil
	}
	e.mu.Unlock()
	return ErrNotScanning
}

// Done returns a channel closed when the current run stops for any reason.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Wait blocks until the current run stops.
func (e *Engine) Wait() {
	<-e.Done()
}

func (e *Engine) State() ScanState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) IsScanning() bool { return e.State() == Scanning }
func (e *Engine) IsPaused() bool   { return e.State() == Paused }
func (e *Engine) IsFinished() bool { return e.State() == Finished }
func (e *Engine) IsCanceled() bool { return e.State() == Canceled }

// Cursor returns the saved resume point. It is meaningful only while Paused.
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused {
		return Cursor{}
	}
	return e.cursor
}

// Summary returns the outcome of the last finished scan.
func (e *Engine) Summary() (Summary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary, e.state == Finished
}

// DeletionTotal is the number of result rows currently marked for deletion.
func (e *Engine) DeletionTotal() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Finished {
		return 0
	}
	return e.ledger
}

// Directory returns the current directory.
func (e *Engine) Directory() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir
}

// SetVerification toggles byte-by-byte verification for the next run.
func (e *Engine) SetVerification(on bool) error {
	e.mu.Lock()
	if e.state == Scanning {
		e.mu.Unlock()
		return ErrScanInProgress
	}
	e.verify = on
	e.mu.Unlock()

	text := "content verification disabled"
	if on {
		text = "content verification enabled"
	}
	e.notifier.Progress(text, true, Purple)
	return nil
}

func (e *Engine) Verification() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verify
}

// SetIgnore replaces the exclusion matcher used by the next fresh scan.
func (e *Engine) SetIgnore(m Matcher) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Scanning {
		return ErrScanInProgress
	}
	e.ignore = m
	return nil
}

type interruptKind int

const (
	interruptPause interruptKind = iota
	interruptCancel
)

// interrupt unwinds a phase back to the driver.
type interrupt struct {
	kind   interruptKind
	cursor Cursor
}

func (i *interrupt) Error() string {
	if i.kind == interruptCancel {
		return "scan canceled"
	}
	return fmt.Sprintf("scan paused at %s", i.cursor)
}

// check is the cooperative checkpoint. (i, j) is the point the current phase
// would resume from.
func (e *Engine) check(i, j int) error {
	if e.cancelRequested.Load() || e.ctx.Err() != nil {
		return &interrupt{kind: interruptCancel}
	}
	if e.pauseRequested.Load() {
		return &interrupt{kind: interruptPause, cursor: Cursor{Phase: e.cursor.Phase, I: i, J: j}}
	}
	return nil
}

func (e *Engine) work(resume bool, done chan struct{}) {
	defer close(done)

	if resume {
		e.logger.Info("scan resumed", "root", e.root, "cursor", e.cursor.String())
	} else {
		e.run.StartedAt = e.clock.Now()
		e.run.Verified = e.verifying
		if err := e.journal.RecordScanStarted(e.run); err != nil {
			e.logger.Warn("failed to record scan start", "run", e.run.ID, "error", err)
		}
		e.logger.Info("scan started", "root", e.root, "run", e.run.ID, "algorithm", e.algorithm.Name, "verify", e.verifying)
		if !e.algorithm.Cryptographic {
			e.logger.Warn("non-cryptographic digest, verifying content", "algorithm", e.algorithm.Name)
		}
	}
	e.notifier.Started()

	for e.cursor.Phase != PhaseEnd {
		err := e.runPhase(e.cursor)
		if err == nil {
			e.cursor = Cursor{Phase: e.cursor.Phase.next()}
			continue
		}

		var intr *interrupt
		if errors.As(err, &intr) && intr.kind == interruptPause {
			e.suspend(intr.cursor)
			return
		}
		if !errors.As(err, &intr) {
			e.logger.Error("scan failed", "phase", e.cursor.Phase.String(), "error", err)
		}
		e.abort()
		return
	}
	e.finish()
}

func (e *Engine) runPhase(c Cursor) error {
	switch c.Phase {
	case PhaseWalk:
		return e.walk(c.I)
	case PhaseSizeSort:
		return e.sortBySize()
	case PhaseHash:
		return e.calculateHashes(c.I, c.J)
	case PhaseHashSort:
		return e.sortByHash(c.I)
	case PhaseGroup:
		return e.groupDuplicates(c.I, c.J)
	case PhaseNameSort:
		return e.sortByName(c.I)
	case PhaseReport:
		return e.showResults(c.I, c.J)
	}
	return fmt.Errorf("unknown phase %d", int(c.Phase))
}

func (e *Engine) suspend(c Cursor) {
	e.cursor = c
	e.logger.Info("scan paused", "cursor", c.String())

	e.mu.Lock()
	e.state = Paused
	e.mu.Unlock()

	e.notifier.Progress("paused", false, Yellow)
	e.notifier.Paused()
}

// abort discards the run. It executes on the worker, or on the caller of
// Cancel when the scan is paused.
func (e *Engine) abort() {
	root := e.root
	e.endRun(RunCanceled, Summary{})
	e.clear()

	e.mu.Lock()
	e.state = Canceled
	e.aborting = true
	e.mu.Unlock()

	e.logger.Info("scan canceled", "root", root)
	e.notifier.Progress("canceled", false, Orange)
	e.notifier.Canceled()

	e.mu.Lock()
	e.aborting = false
	e.mu.Unlock()
}

func (e *Engine) finish() {
	root := e.root
	summary := summarize(e.files, e.groups)
	e.endRun(RunFinished, summary)
	e.notifier.Progress("finished", true, Green)
	e.clear()

	e.mu.Lock()
	e.summary = summary
	e.ledger = summary.Candidates
	e.state = Finished
	e.mu.Unlock()

	e.logger.Info("scan finished", "root", root, "files", summary.Files, "groups", summary.Groups, "candidates", summary.Candidates)
	e.notifier.Finished()
}

func (e *Engine) endRun(status RunStatus, summary Summary) {
	if e.run == nil {
		return
	}
	e.run.Status = status
	e.run.FinishedAt = e.clock.Now()
	e.run.Summary = summary
	if err := e.journal.RecordScanEnded(e.run); err != nil {
		e.logger.Warn("failed to record scan end", "run", e.run.ID, "error", err)
	}

	e.mu.Lock()
	e.lastRun = e.run
	e.mu.Unlock()
}

// clear drops the working collections of a run.
func (e *Engine) clear() {
	e.files = nil
	e.dirs = nil
	e.groups = nil
	e.cursor = Cursor{}
	e.blockA = nil
	e.blockB = nil
	e.notifier.Progress("", true, NoColor)
}
