package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
)

// instrumented runs a tool inside a span, recording the invocation metric
// and, for tools that modify a document, an audit record.
func (r *Registry) instrumented(ctx context.Context, t *tool, rawArgs json.RawMessage) (string, error) {
	runID := instrumentation.RunIDFromContext(ctx)

	ctx, span := instrumentation.StartToolSpan(ctx, t.Name, instrumentation.NewSpanAttributeBuilder().
		WithMode(string(r.mode)).
		WithRunID(runID).
		WithDocument(t.Alias, "").
		WithReadOnly(t.Arity == ArityRead).
		Build()...)

	invocation := instrumentation.NewToolInvocation(t.Name).
		WithRun(string(r.mode), runID).
		WithTarget(string(t.Kind()), t.Alias, string(t.Arity)).
		WithSpanContext(ctx)

	out, locator, text, err := r.call(ctx, t, rawArgs)
	invocation.WithContent(locator, text).Complete(err)

	r.opts.metrics.RecordToolInvocation(ctx, t.Name, instrumentation.StatusFromError(err), time.Since(invocation.StartTime))
	r.opts.audit.LogToolInvocation(invocation)
	instrumentation.EndSpan(span, err)

	return out, err
}
