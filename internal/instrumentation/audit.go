package instrumentation

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
)

// maxExcerptRunes bounds the text excerpt written to audit records.
const maxExcerptRunes = 120

// ToolInvocation captures one document tool call for audit logging.
//
// # Content
//
// Locator and Text describe what was written. They are only emitted by
// LogAuditAttrs, which AuditLogger uses when content logging is enabled.
type ToolInvocation struct {
	Tool string

	// Planner context
	Mode  string
	RunID string

	// Target document
	Backend   string // notion, google
	Document  string // document alias
	Operation string // read, append, update
	Locator   string
	Text      string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// ReadOnly reports whether the invocation did not modify a document.
func (ti *ToolInvocation) ReadOnly() bool {
	return ti.Operation == OperationRead
}

// LogAttrs returns slog attributes without document content.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Mode != "" {
		attrs = append(attrs, slog.String("mode", ti.Mode))
	}
	if ti.RunID != "" {
		attrs = append(attrs, slog.String("run_id", ti.RunID))
	}
	if ti.Backend != "" {
		attrs = append(attrs, slog.String("backend", ti.Backend))
	}
	if ti.Document != "" {
		attrs = append(attrs, slog.String("document", ti.Document))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// LogAuditAttrs returns LogAttrs plus the locator, a bounded excerpt of the
// written text, and the span ID.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.LogAttrs()

	if ti.Locator != "" {
		attrs = append(attrs, slog.String("locator", ti.Locator))
	}
	if ti.Text != "" {
		attrs = append(attrs,
			slog.String("text", excerpt(ti.Text)),
			slog.Int("text_length", utf8.RuneCountInString(ti.Text)),
		)
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}

	return attrs
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= maxExcerptRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxExcerptRunes]) + "…"
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithRun sets the planner mode and run ID.
func (ti *ToolInvocation) WithRun(mode, runID string) *ToolInvocation {
	ti.Mode = mode
	ti.RunID = runID
	return ti
}

// WithTarget sets the backend, document alias and operation.
func (ti *ToolInvocation) WithTarget(backend, document, operation string) *ToolInvocation {
	ti.Backend = backend
	ti.Document = document
	ti.Operation = operation
	return ti
}

// WithContent sets the locator and text written by the tool.
func (ti *ToolInvocation) WithContent(locator, text string) *ToolInvocation {
	ti.Locator = locator
	ti.Text = text
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = err == nil
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// AuditLogger writes structured audit records for mutating tool invocations.
type AuditLogger struct {
	logger         *slog.Logger
	includeContent bool
	enabled        bool
}

// NewAuditLogger creates an enabled AuditLogger that omits document content.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:         logger,
		includeContent: config.IncludeContent,
		enabled:        config.Enabled,
	}
}

// LogToolInvocation writes one audit record. Read-only invocations are
// skipped; only operations that change a document are audited.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled || ti.ReadOnly() {
		return
	}

	var attrs []slog.Attr
	if al.includeContent {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}
