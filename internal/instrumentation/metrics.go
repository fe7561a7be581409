package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrBackend   = "backend"
	attrDocument  = "document"
	attrProvider  = "provider"
	attrMode      = "mode"
	attrOutcome   = "outcome"
	attrTool      = "tool"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Model transport metrics
	llmRequestsTotal   metric.Int64Counter
	llmRequestDuration metric.Float64Histogram

	// Planner metrics
	agentRunsTotal metric.Int64Counter
	agentRunRounds metric.Int64Histogram

	// Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Document API metrics
	documentOperationsTotal   metric.Int64Counter
	documentOperationDuration metric.Float64Histogram

	// detailedLabels adds the document alias to document API metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.llmRequestsTotal, err = meter.Int64Counter(
		"llm_requests_total",
		metric.WithDescription("Total number of language model requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_requests_total counter: %w", err)
	}

	m.llmRequestDuration, err = meter.Float64Histogram(
		"llm_request_duration_seconds",
		metric.WithDescription("Language model request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_request_duration_seconds histogram: %w", err)
	}

	m.agentRunsTotal, err = meter.Int64Counter(
		"agent_runs_total",
		metric.WithDescription("Total number of planner runs by mode and outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_runs_total counter: %w", err)
	}

	m.agentRunRounds, err = meter.Int64Histogram(
		"agent_run_rounds",
		metric.WithDescription("Number of model rounds used by a planner run"),
		metric.WithUnit("{round}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13, 21, 30),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_run_rounds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total number of document tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"tool_duration_seconds",
		metric.WithDescription("Document tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_duration_seconds histogram: %w", err)
	}

	m.documentOperationsTotal, err = meter.Int64Counter(
		"document_api_operations_total",
		metric.WithDescription("Total number of document API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document_api_operations_total counter: %w", err)
	}

	m.documentOperationDuration, err = meter.Float64Histogram(
		"document_api_operation_duration_seconds",
		metric.WithDescription("Document API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document_api_operation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, route, status code, and duration.
// path should be the matched route template, not the raw request path.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, RouteLabel(path)),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordLLMRequest records one model round-trip.
//
// Parameters:
//   - provider: model provider name (googleai, openai)
//   - status: "success", "error" or "canceled"
//   - duration: time taken for the round-trip
func (m *Metrics) RecordLLMRequest(ctx context.Context, provider, status string, duration time.Duration) {
	if m == nil || m.llmRequestsTotal == nil || m.llmRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	}

	m.llmRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.llmRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAgentRun records a finished planner run and the rounds it consumed.
func (m *Metrics) RecordAgentRun(ctx context.Context, mode, outcome string, rounds int) {
	if m == nil || m.agentRunsTotal == nil || m.agentRunRounds == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMode, mode),
		attribute.String(attrOutcome, outcome),
	}

	m.agentRunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.agentRunRounds.Record(ctx, int64(rounds), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records a tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDocumentOperation records a document API call.
//
// Parameters:
//   - backend: backend kind (notion, google)
//   - operation: read, append or update
//   - document: document alias, only attached when detailed labels are enabled
//   - status: "success" or "error"
//   - duration: time taken for the operation
func (m *Metrics) RecordDocumentOperation(ctx context.Context, backend, operation, document, status string, duration time.Duration) {
	if m == nil || m.documentOperationsTotal == nil || m.documentOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrBackend, backend),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && document != "" {
		attrs = append(attrs, attribute.String(attrDocument, document))
	}

	m.documentOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.documentOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
