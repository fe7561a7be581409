package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer of every mediator span.
const TracerName = "github.com/enzocage/Notion-Mediator"

// Span attribute keys.
const (
	SpanAttrTool      = "mediator.tool"
	SpanAttrMode      = "mediator.mode"
	SpanAttrRunID     = "mediator.run_id"
	SpanAttrRound     = "mediator.round"
	SpanAttrBackend   = "document.backend"
	SpanAttrOperation = "document.operation"
	SpanAttrDocument  = "document.alias"
	SpanAttrLocator   = "document.locator"
	SpanAttrReadOnly  = "mediator.read_only"
)

// SpanAttributeBuilder collects span attributes. Empty values are skipped.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{}
}

// WithMode adds the planner mode attribute.
func (b *SpanAttributeBuilder) WithMode(mode string) *SpanAttributeBuilder {
	if mode != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrMode, mode))
	}
	return b
}

// WithRunID adds the run identifier attribute.
func (b *SpanAttributeBuilder) WithRunID(runID string) *SpanAttributeBuilder {
	if runID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrRunID, runID))
	}
	return b
}

// WithDocument adds the document alias and, when set, the locator.
func (b *SpanAttributeBuilder) WithDocument(alias, locator string) *SpanAttributeBuilder {
	if alias != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrDocument, alias))
	}
	if locator != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrLocator, locator))
	}
	return b
}

// WithReadOnly adds the read-only indicator attribute.
func (b *SpanAttributeBuilder) WithReadOnly(readOnly bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

func startSpan(ctx context.Context, name string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...), trace.WithSpanKind(kind))
}

// StartRunSpan starts the root span of a planner run.
func StartRunSpan(ctx context.Context, mode, runID string) (context.Context, trace.Span) {
	return startSpan(ctx, "agent.run", trace.SpanKindServer,
		NewSpanAttributeBuilder().WithMode(mode).WithRunID(runID).Build()...)
}

// StartToolSpan starts the span of one tool invocation, named tool.<name>.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "tool."+toolName, trace.SpanKindInternal,
		append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)...)
}

// StartDocumentSpan starts a client span for a document API call, named
// <backend>.<operation>.
func StartDocumentSpan(ctx context.Context, backend, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, backend+"."+operation, trace.SpanKindClient,
		append([]attribute.KeyValue{
			attribute.String(SpanAttrBackend, backend),
			attribute.String(SpanAttrOperation, operation),
		}, attrs...)...)
}

// SetSpanError marks the span failed with err. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		SetSpanError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddRoundEvent records one planner round on the run span. tool is empty
// for the final round.
func AddRoundEvent(span trace.Span, round int, tool string) {
	attrs := []attribute.KeyValue{attribute.Int(SpanAttrRound, round)}
	if tool != "" {
		attrs = append(attrs, attribute.String(SpanAttrTool, tool))
	}
	span.AddEvent("round", trace.WithAttributes(attrs...))
}

type runIDKey struct{}

// ContextWithRunID returns a context carrying the planner run ID, so that
// tool spans and audit records started below it can be correlated.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID set by ContextWithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
