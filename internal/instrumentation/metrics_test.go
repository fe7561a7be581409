package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestMetrics(t *testing.T, detailed bool) (context.Context, *Metrics) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "mediator-test",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		DetailedLabels:  detailed,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}
	return ctx, metrics
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, metrics := newTestMetrics(t, false)

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "POST", "/api/chat", 200, 1200*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/api/chat", 400, 2*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "GET", "", 404, time.Millisecond)
}

func TestMetrics_RecordLLMRequest(t *testing.T) {
	ctx, metrics := newTestMetrics(t, false)

	metrics.RecordLLMRequest(ctx, "googleai", StatusSuccess, 800*time.Millisecond)
	metrics.RecordLLMRequest(ctx, "openai", StatusError, 50*time.Millisecond)
	metrics.RecordLLMRequest(ctx, "googleai", StatusCanceled, 30*time.Second)
}

func TestMetrics_RecordAgentRun(t *testing.T) {
	ctx, metrics := newTestMetrics(t, false)

	metrics.RecordAgentRun(ctx, BackendNotion, "answer", 3)
	metrics.RecordAgentRun(ctx, BackendGoogle, "exhausted", 30)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, metrics := newTestMetrics(t, false)

	metrics.RecordToolInvocation(ctx, "read_page_1", StatusSuccess, 300*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "update_doc_2", StatusError, 100*time.Millisecond)
}

func TestMetrics_RecordDocumentOperation(t *testing.T) {
	for _, detailed := range []bool{false, true} {
		ctx, metrics := newTestMetrics(t, detailed)

		metrics.RecordDocumentOperation(ctx, BackendNotion, OperationRead, "1", StatusSuccess, 200*time.Millisecond)
		metrics.RecordDocumentOperation(ctx, BackendGoogle, OperationUpdate, "2", StatusError, 500*time.Millisecond)
		metrics.RecordDocumentOperation(ctx, BackendGoogle, OperationAppend, "", StatusSuccess, 100*time.Millisecond)
	}
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()

	// All methods should be no-ops and not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	metrics.RecordLLMRequest(ctx, "googleai", StatusSuccess, time.Second)
	metrics.RecordAgentRun(ctx, BackendGoogle, "answer", 1)
	metrics.RecordToolInvocation(ctx, "write_doc_1", StatusSuccess, time.Second)
	metrics.RecordDocumentOperation(ctx, BackendGoogle, OperationAppend, "1", StatusSuccess, time.Second)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var metrics *Metrics

	// A nil recorder is accepted wherever a recorder is optional.
	metrics.RecordToolInvocation(context.Background(), "read_doc_1", StatusSuccess, time.Millisecond)
	metrics.RecordAgentRun(context.Background(), BackendNotion, "answer", 1)
}
