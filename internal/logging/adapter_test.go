package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter == nil {
		t.Fatal("NewSlogAdapter returned nil")
	}
	if adapter.Logger != slog.Default() {
		t.Error("nil logger should fall back to slog.Default()")
	}
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, true))

	adapter.Debug("debug message", "key", "value")
	adapter.Info("info message")
	adapter.Warn("warn message")
	adapter.Error("error message")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR", "key=value"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, false))

	scoped := adapter.With(KeyRunID, "run-7")
	scoped.Info("round completed")
	adapter.Info("unscoped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "run_id=run-7") {
		t.Errorf("scoped logger should carry run_id: %s", lines[0])
	}
	if strings.Contains(lines[1], "run_id") {
		t.Errorf("parent logger must not be modified: %s", lines[1])
	}
}

func TestSlogAdapter_WithKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, false))

	adapter.With(KeyMode, "google").Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record should be filtered at info level, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Should not panic
	Discard().With("k", "v").Error("dropped")
}
