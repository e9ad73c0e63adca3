package dupes_test

import (
	"context"
	"hash"
	"hash/fnv"
	"testing"

	"dupcheck/internal/digest"
	"dupcheck/internal/dupes"
	"dupcheck/internal/testutil"
)

// newTestEngine builds an engine over fsmgr rooted at /data.
func newTestEngine(fsmgr dupes.FilesystemManager, n dupes.Notifier, opts dupes.Options) *dupes.Engine {
	if opts.Dir == "" {
		opts.Dir = "/data"
	}
	return dupes.NewEngine(fsmgr, n, nil, nil, testutil.FixedClock(), testutil.NewStubIDGenerator(), opts)
}

// runToEnd starts the engine and keeps resuming it until it stops in a
// state other than Paused.
func runToEnd(t *testing.T, e *dupes.Engine) {
	t.Helper()
	for i := 0; ; i++ {
		if i > 10000 {
			t.Fatal("scan did not terminate")
		}
		if err := e.Start(context.Background()); err != nil {
			t.Fatalf("Start: %v", err)
		}
		e.Wait()
		if e.State() != dupes.Paused {
			return
		}
	}
}

// resultRows flattens shown rows to their columns.
func resultRows(n *testutil.RecordingNotifier) []dupes.Columns {
	var cols []dupes.Columns
	for _, r := range n.Rows() {
		cols = append(cols, r.Columns)
	}
	return cols
}

func paths(n *testutil.RecordingNotifier, state string) []string {
	var out []string
	for _, r := range n.Rows() {
		if r.State() == state {
			out = append(out, r.Path())
		}
	}
	return out
}

// blindHash ignores its input, so every file gets the same digest.
type blindHash struct{ hash.Hash }

func (blindHash) Write(p []byte) (int, error) { return len(p), nil }

func blindAlgorithm(cryptographic bool) *digest.Algorithm {
	return &digest.Algorithm{
		Name:          "blind",
		Bits:          32,
		Cryptographic: cryptographic,
		New:           func() hash.Hash { return blindHash{fnv.New32a()} },
	}
}

// sampleTree has groups {a, b, sub/d}, {c, sub/e}, {f, g} and {j, k}, plus
// files that share a size without sharing content or share nothing at all.
func sampleTree() *testutil.MockFilesystemManager {
	m := testutil.NewMockFilesystemManager()
	m.AddFile("/data/a.txt", []byte("alpha"))
	m.AddFile("/data/b.txt", []byte("alpha"))
	m.AddFile("/data/c.txt", []byte("bravo"))
	m.AddFile("/data/h.txt", []byte("unique-size-file"))
	m.AddFile("/data/sub/d.txt", []byte("alpha"))
	m.AddFile("/data/sub/e.txt", []byte("bravo"))
	m.AddFile("/data/sub/i.txt", []byte("delta"))
	m.AddFile("/data/sub/deep/f.txt", []byte("charlie!"))
	m.AddFile("/data/sub/deep/g.txt", []byte("charlie!"))
	m.AddFile("/data/x/j.txt", nil)
	m.AddFile("/data/x/k.txt", nil)
	return m
}
