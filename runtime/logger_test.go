package runtime

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func frozenLogger(buf *bytes.Buffer, verbose bool) *JSONLogger {
	l := NewJSONLogger(buf, verbose)
	l.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestJSONLogger_EmitsOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	l := frozenLogger(&buf, false)

	l.Info("provisioning tool", map[string]any{"tool": "aicap"})
	l.Warn("slow", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if entry["level"] != "info" || entry["msg"] != "provisioning tool" || entry["tool"] != "aicap" {
		t.Errorf("entry = %v", entry)
	}
	if entry["time"] != "2026-08-01T12:00:00Z" {
		t.Errorf("time = %v", entry["time"])
	}
}

func TestJSONLogger_DebugGatedOnVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer

	frozenLogger(&quiet, false).Debug("hidden", nil)
	frozenLogger(&loud, true).Debug("shown", nil)

	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger wrote debug entry: %s", quiet.String())
	}
	if !strings.Contains(loud.String(), "shown") {
		t.Errorf("verbose logger dropped debug entry: %s", loud.String())
	}
}

func TestJSONLogger_ReservedKeysWin(t *testing.T) {
	var buf bytes.Buffer
	l := frozenLogger(&buf, false)

	l.Error("publish failed", map[string]any{"level": "nope", "msg": "nope"})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["level"] != "error" || entry["msg"] != "publish failed" {
		t.Errorf("caller fields clobbered reserved keys: %v", entry)
	}
}
