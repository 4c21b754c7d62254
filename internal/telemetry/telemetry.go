// Package telemetry writes opt-in JSONL events describing agent turns.
//
// Events never carry raw scenario text, tool inputs or tool outputs; only
// sizes, durations, names and derived features.
package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventsFile is the JSONL file name inside the artifacts directory.
const EventsFile = "events.jsonl"

// Emitter appends events to <dir>/events.jsonl. A nil or disabled Emitter is a no-op.
type Emitter struct {
	dir     string
	enabled bool
	logger  *zap.Logger

	mu sync.Mutex
}

// New returns an Emitter. logger may be nil.
func New(dir string, enabled bool, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{dir: dir, enabled: enabled, logger: logger}
}

// Enabled reports whether Emit writes anything.
func (e *Emitter) Enabled() bool { return e != nil && e.enabled }

// Path returns the events file location.
func (e *Emitter) Path() string { return filepath.Join(e.dir, EventsFile) }

// Emit writes a single JSON line augmented with RFC3339Nano time and the event name.
// Failures are logged and swallowed.
func (e *Emitter) Emit(name string, fields map[string]any) {
	if !e.Enabled() {
		return
	}

	// Make a shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		e.logger.Warn("telemetry marshal", zap.String("event", name), zap.Error(err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.logger.Warn("telemetry mkdir", zap.String("dir", e.dir), zap.Error(err))
		return
	}
	path := e.Path()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		e.logger.Warn("telemetry open", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		e.logger.Warn("telemetry write", zap.String("path", path), zap.Error(err))
	}
}
