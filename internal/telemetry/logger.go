// Package telemetry writes structured JSON-lines session logs. The
// logger is nil-safe and collapses to a no-op when no path is
// configured, so callers never guard log statements.
package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type JSONLogger struct {
	mu   *sync.Mutex
	w    io.WriteCloser
	base map[string]any
}

// NewJSONLogger opens path for appending so successive tutor sessions
// share one log. An empty path yields a discard logger.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return &JSONLogger{mu: &sync.Mutex{}, w: nopCloser{Writer: io.Discard}}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLogger{mu: &sync.Mutex{}, w: f}, nil
}

// With returns a logger that stamps fields onto every entry. The child
// shares the parent's writer and lock.
func (l *JSONLogger) With(fields map[string]any) *JSONLogger {
	if l == nil {
		return nil
	}
	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &JSONLogger{mu: l.mu, w: l.w, base: merged}
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, _ := json.Marshal(entry)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
