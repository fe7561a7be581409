package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testToolWrite  = "write_doc_1"
	testToolUpdate = "update_block_page_2"
	testToolRead   = "read_page_1"
	testRunID      = "9b2f6a3e-run"
)

func attrMap(attrs []slog.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	return m
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolWrite)

	if ti.Tool != testToolWrite {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolWrite)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.Complete(nil)

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolUpdate).Complete(errors.New("locator not found"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "locator not found" {
		t.Errorf("Error = %q, want %q", ti.Error, "locator not found")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolUpdate).
		WithRun(BackendNotion, testRunID).
		WithTarget(BackendNotion, "2", OperationUpdate).
		WithContent("block-abc", "secret text").
		Complete(nil)

	m := attrMap(ti.LogAttrs())

	for key, want := range map[string]string{
		"tool":      testToolUpdate,
		"mode":      BackendNotion,
		"run_id":    testRunID,
		"backend":   BackendNotion,
		"document":  "2",
		"operation": OperationUpdate,
	} {
		if m[key] != want {
			t.Errorf("%s = %q, want %q", key, m[key], want)
		}
	}
	if _, ok := m["text"]; ok {
		t.Error("LogAttrs must not include document text")
	}
	if _, ok := m["locator"]; ok {
		t.Error("LogAttrs must not include the locator")
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	long := strings.Repeat("ä", maxExcerptRunes+10)
	ti := NewToolInvocation(testToolWrite).
		WithTarget(BackendGoogle, "1", OperationAppend).
		WithContent("", long).
		Complete(nil)
	ti.SpanID = "span789"

	m := attrMap(ti.LogAuditAttrs())

	if got := []rune(m["text"]); len(got) != maxExcerptRunes+1 {
		t.Errorf("expected excerpt of %d runes plus ellipsis, got %d", maxExcerptRunes, len(got))
	}
	if m["text_length"] != "130" {
		t.Errorf("text_length = %q, want 130", m["text_length"])
	}
	if m["span_id"] != "span789" {
		t.Errorf("span_id = %q", m["span_id"])
	}
	if _, ok := m["locator"]; ok {
		t.Error("empty locator should be omitted")
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation(testToolRead).WithSpanContext(context.Background())

	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("expected empty trace context, got %q/%q", ti.TraceID, ti.SpanID)
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	tests := []struct {
		name        string
		config      AuditLoggingConfig
		invocation  *ToolInvocation
		wantMessage string
		wantText    bool
	}{
		{
			name:   "successful append",
			config: AuditLoggingConfig{Enabled: true},
			invocation: NewToolInvocation(testToolWrite).
				WithTarget(BackendGoogle, "1", OperationAppend).
				WithContent("", "hello").
				Complete(nil),
			wantMessage: "tool_executed",
		},
		{
			name:   "failed update with content",
			config: AuditLoggingConfig{Enabled: true, IncludeContent: true},
			invocation: NewToolInvocation(testToolUpdate).
				WithTarget(BackendNotion, "2", OperationUpdate).
				WithContent("block-abc", "hello").
				Complete(errors.New("access denied")),
			wantMessage: "tool_failed",
			wantText:    true,
		},
		{
			name:   "read is not audited",
			config: AuditLoggingConfig{Enabled: true},
			invocation: NewToolInvocation(testToolRead).
				WithTarget(BackendNotion, "1", OperationRead).
				Complete(nil),
		},
		{
			name:   "disabled",
			config: AuditLoggingConfig{Enabled: false},
			invocation: NewToolInvocation(testToolWrite).
				WithTarget(BackendGoogle, "1", OperationAppend).
				Complete(nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			NewAuditLoggerWithConfig(logger, tt.config).LogToolInvocation(tt.invocation)

			if tt.wantMessage == "" {
				if buf.Len() != 0 {
					t.Errorf("expected no audit record, got %s", buf.String())
				}
				return
			}

			var record map[string]any
			if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
				t.Fatalf("failed to decode audit record: %v", err)
			}
			if record["msg"] != tt.wantMessage {
				t.Errorf("msg = %v, want %q", record["msg"], tt.wantMessage)
			}
			if _, ok := record["text"]; ok != tt.wantText {
				t.Errorf("text present = %v, want %v", ok, tt.wantText)
			}
		})
	}
}

func TestAuditLogger_Nil(t *testing.T) {
	var al *AuditLogger

	// Should not panic
	al.LogToolInvocation(NewToolInvocation(testToolWrite).Complete(nil))

	if NewAuditLogger(nil).logger == nil {
		t.Error("expected default logger when nil is given")
	}
}
