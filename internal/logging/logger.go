// Package logging provides leveled logging and stage tracing for trialgen.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A StageTracer for structured JSONL pipeline traces (trace.jsonl in the
//     output directory)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for full content logging.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// StageTracer writes structured per-stage events to a JSONL file.
// It is safe for concurrent use. A nil StageTracer is safe to use;
// all methods are no-ops on nil receiver.
type StageTracer struct {
	mu   sync.Mutex
	file *os.File
}

// StageEvent is one line in the trace file.
type StageEvent struct {
	Time      time.Time `json:"time"`
	Stage     string    `json:"stage"`
	StageSeed uint64    `json:"stage_seed"`
	In        int       `json:"in"`
	Out       int       `json:"out"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

// NewStageTracer creates a tracer writing to dir/trace.jsonl.
// At "info" level (the default), returns nil — no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewStageTracer(dir string, level string) *StageTracer {
	lvl := ParseLevel(level)
	if lvl >= slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "trace.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}
	return &StageTracer{file: f}
}

// Record appends one stage event. No-op on nil receiver.
func (t *StageTracer) Record(ev StageEvent) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	t.file.Write(append(line, '\n'))
}

// Close closes the underlying file. No-op on nil receiver.
func (t *StageTracer) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
