// Package runtime provides the process and logging plumbing shared by the
// provisioning packages: a structured logger and a subprocess runner with
// bounded timeouts.
package runtime

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger is the structured logging interface used across the provisioner.
// Provisioning runs are long and subprocess-heavy, so every entry carries
// key/value fields (tool name, directory, durations) rather than formatted
// strings.
type Logger interface {
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Debug(msg string, fields map[string]any)
}

// JSONLogger emits one JSON object per line. Debug entries are gated on
// verbose; everything else always writes. Safe for concurrent use.
type JSONLogger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool

	now func() time.Time
}

// NewJSONLogger creates a JSONLogger writing to out.
func NewJSONLogger(out io.Writer, verbose bool) *JSONLogger {
	return &JSONLogger{out: out, verbose: verbose, now: time.Now}
}

func (l *JSONLogger) Info(msg string, fields map[string]any)  { l.write("info", msg, fields) }
func (l *JSONLogger) Warn(msg string, fields map[string]any)  { l.write("warn", msg, fields) }
func (l *JSONLogger) Error(msg string, fields map[string]any) { l.write("error", msg, fields) }

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	if !l.verbose {
		return
	}
	l.write("debug", msg, fields)
}

func (l *JSONLogger) write(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	// Reserved keys win over caller fields of the same name.
	entry["time"] = l.now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg

	line, err := json.Marshal(entry)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"level":%q,"msg":"unserializable log entry: %s"}`, level, msg))
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(line) //nolint:errcheck
}

// NopLogger discards everything. It is the logger of choice in tests and
// in quiet interactive runs where the progress display carries the story.
type NopLogger struct{}

func (NopLogger) Info(string, map[string]any)  {}
func (NopLogger) Warn(string, map[string]any)  {}
func (NopLogger) Error(string, map[string]any) {}
func (NopLogger) Debug(string, map[string]any) {}
