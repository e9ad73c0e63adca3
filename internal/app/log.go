package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is the log file inside the configured log directory.
const LogFileName = "dupcheck.log"

// runHandler is a slog.Handler that formats records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
type runHandler struct {
	w     io.Writer
	runID string
	level slog.Level
	attrs []slog.Attr
}

func (h *runHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *runHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s", r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.Level, h.runID, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{
		w:     h.w,
		runID: h.runID,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *runHandler) WithGroup(string) slog.Handler { return h }

// parseLevel maps a config log level to slog. Unknown values mean info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger creates a logger appending to logDir/dupcheck.log. The console
// belongs to the scan output, so nothing is written to stderr.
func newLogger(logDir, runID, level string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	h := &runHandler{w: f, runID: runID, level: parseLevel(level)}
	return slog.New(h), f, nil
}

// slogAdapter satisfies dupes.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
